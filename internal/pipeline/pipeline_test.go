package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/services/ytdlp"
	"scribe/internal/transcript"
	"scribe/internal/videoref"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeDownloader struct {
	calls     int
	audioPath string
	err       error
}

func (f *fakeDownloader) Download(_ context.Context, _ string, _ videoref.Reference, opts ytdlp.Options) error {
	f.calls++
	f.audioPath = opts.AudioPath()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(f.audioPath, []byte("audio"), 0o644)
}

type fakeTranscriber struct {
	segments  []transcript.Segment
	err       error
	audioSeen bool
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, _ string) ([]transcript.Segment, error) {
	if _, err := os.Stat(audioPath); err == nil {
		f.audioSeen = true
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths.WorkDir = filepath.Join(root, "work")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.OutputDir = filepath.Join(root, "out")
	return &cfg
}

func newTestPipeline(cfg *config.Config, dl *fakeDownloader, tr *fakeTranscriber) *Pipeline {
	return New(cfg, logging.NewNop(), WithDownloader(dl), WithTranscriber(tr))
}

func listAudioFiles(t *testing.T, workDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "audio_") {
			names = append(names, entry.Name())
		}
	}
	return names
}

func TestRunWritesSingleArtifact(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{
		{Start: 0, End: 2.5, Text: "hello world"},
		{Start: 2.5, End: 5, Text: "second line"},
	}}
	p := newTestPipeline(cfg, dl, tr)

	outputPath := filepath.Join(cfg.Paths.OutputDir, "talk.txt")
	result, err := p.Run(context.Background(), Request{
		URL:        testURL,
		OutputPath: outputPath,
		Format:     transcript.FormatText,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Segments != 2 {
		t.Fatalf("expected 2 segments, got %d", result.Segments)
	}
	if len(result.Outputs) != 1 || result.Outputs[0] != outputPath {
		t.Fatalf("unexpected outputs: %v", result.Outputs)
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "[0:00:00 --> 0:00:02] hello world\n[0:00:02 --> 0:00:05] second line\n"
	if string(data) != want {
		t.Fatalf("artifact content mismatch:\n got %q\nwant %q", data, want)
	}
	if !tr.audioSeen {
		t.Fatal("transcriber did not observe the downloaded audio file")
	}
	if leftovers := listAudioFiles(t, cfg.Paths.WorkDir); len(leftovers) != 0 {
		t.Fatalf("temp audio left behind: %v", leftovers)
	}
}

func TestRunSplitProducesPartFiles(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{
		{Start: 0, End: 1, Text: "one two three"},
		{Start: 1, End: 2, Text: "four five six"},
		{Start: 2, End: 3, Text: "seven"},
	}}
	p := newTestPipeline(cfg, dl, tr)

	outputPath := filepath.Join(cfg.Paths.OutputDir, "talk.txt")
	result, err := p.Run(context.Background(), Request{
		URL:        testURL,
		OutputPath: outputPath,
		Split:      true,
		MaxWords:   7,
		Format:     transcript.FormatText,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		filepath.Join(cfg.Paths.OutputDir, "talk_part1.txt"),
		filepath.Join(cfg.Paths.OutputDir, "talk_part2.txt"),
	}
	if len(result.Outputs) != len(want) {
		t.Fatalf("expected %d outputs, got %v", len(want), result.Outputs)
	}
	for i, path := range want {
		if result.Outputs[i] != path {
			t.Fatalf("output %d: got %q, want %q", i, result.Outputs[i], path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("artifact %s missing: %v", path, err)
		}
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Fatalf("unsplit artifact should not exist when splitting: %v", err)
	}
}

func TestRunUnsupportedPlatformFailsBeforeDownload(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{}
	p := newTestPipeline(cfg, dl, tr)

	_, err := p.Run(context.Background(), Request{
		URL:    "https://example.com/watch?v=nothing",
		Format: transcript.FormatText,
	})
	if !errors.Is(err, services.ErrUnsupportedPlatform) {
		t.Fatalf("expected unsupported platform error, got %v", err)
	}
	if dl.calls != 0 {
		t.Fatalf("downloader should not run for unsupported URLs, ran %d times", dl.calls)
	}
	if leftovers := listAudioFiles(t, cfg.Paths.WorkDir); len(leftovers) != 0 {
		t.Fatalf("temp audio created for unsupported URL: %v", leftovers)
	}
}

func TestRunDownloadFailureCleansTemp(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{err: errors.New("network unreachable")}
	tr := &fakeTranscriber{}
	p := newTestPipeline(cfg, dl, tr)

	_, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText})
	if !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected download error, got %v", err)
	}
	if leftovers := listAudioFiles(t, cfg.Paths.WorkDir); len(leftovers) != 0 {
		t.Fatalf("temp audio left behind after failure: %v", leftovers)
	}
}

func TestRunTranscriptionFailureCleansTemp(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{err: errors.New("model load failed")}
	p := newTestPipeline(cfg, dl, tr)

	_, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText})
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	if leftovers := listAudioFiles(t, cfg.Paths.WorkDir); len(leftovers) != 0 {
		t.Fatalf("temp audio left behind after failure: %v", leftovers)
	}
}

func TestRunDefaultOutputName(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{{Start: 0, End: 1, Text: "hi"}}}
	p := newTestPipeline(cfg, dl, tr)

	result, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(cfg.Paths.OutputDir, "youtube_dQw4w9WgXcQ.txt")
	if len(result.Outputs) != 1 || result.Outputs[0] != want {
		t.Fatalf("got outputs %v, want [%s]", result.Outputs, want)
	}
}

func TestRunDefaultOutputNameSRT(t *testing.T) {
	cfg := testConfig(t)
	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{{Start: 0, End: 1.5, Text: "hi"}}}
	p := newTestPipeline(cfg, dl, tr)

	result, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatSRT})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(cfg.Paths.OutputDir, "youtube_dQw4w9WgXcQ.srt")
	if result.Outputs[0] != want {
		t.Fatalf("got output %q, want %q", result.Outputs[0], want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(data), "00:00:00,000 --> 00:00:01,500") {
		t.Fatalf("SRT timing missing from artifact:\n%s", data)
	}
}

func TestRunCleanExistingRemovesStaleArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.CleanExisting = true
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cfg.Paths.OutputDir, "youtube_dQw4w9WgXcQ_part3.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{{Start: 0, End: 1, Text: "hi"}}}
	p := newTestPipeline(cfg, dl, tr)

	if _, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale part file should have been removed: %v", err)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	store, err := history.OpenPath(filepath.Join(cfg.Paths.LogDir, "history.db"))
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	defer store.Close()

	dl := &fakeDownloader{}
	tr := &fakeTranscriber{segments: []transcript.Segment{{Start: 0, End: 1, Text: "hi"}}}
	p := New(cfg, logging.NewNop(), WithDownloader(dl), WithTranscriber(tr), WithHistory(store))

	result, err := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	run, err := store.GetByRunID(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if run.Status != history.StatusCompleted {
		t.Fatalf("expected completed status, got %s", run.Status)
	}
	if len(run.Outputs) != 1 || run.Outputs[0] != result.Outputs[0] {
		t.Fatalf("history outputs mismatch: %v", run.Outputs)
	}
}

func TestRunRecordsFailureInHistory(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	store, err := history.OpenPath(filepath.Join(cfg.Paths.LogDir, "history.db"))
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	defer store.Close()

	dl := &fakeDownloader{err: errors.New("boom")}
	p := New(cfg, logging.NewNop(), WithDownloader(dl), WithTranscriber(&fakeTranscriber{}), WithHistory(store))

	_, runErr := p.Run(context.Background(), Request{URL: testURL, Format: transcript.FormatText})
	if runErr == nil {
		t.Fatal("expected run to fail")
	}
	runs, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != history.StatusFailed {
		t.Fatalf("expected failed status, got %s", runs[0].Status)
	}
	if runs[0].ErrorText == "" {
		t.Fatal("expected failure cause to be recorded")
	}
}

func TestTempAudioReleaseIdempotent(t *testing.T) {
	dir := t.TempDir()
	temp := newTempAudio(dir, "mp3")
	if err := os.WriteFile(temp.Path(), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := temp.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := temp.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if _, err := os.Stat(temp.Path()); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone: %v", err)
	}
}
