package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/fileutil"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/services/whisper"
	"scribe/internal/services/ytdlp"
	"scribe/internal/transcript"
	"scribe/internal/videoref"
)

// Run stages, in execution order. Every run walks these forward; there are
// no retries and no backward transitions.
const (
	stageClassifying  = "classifying"
	stageDownloading  = "downloading"
	stageTranscribing = "transcribing"
	stageChunking     = "chunking"
	stageRendering    = "rendering"
)

const lockFileName = "scribe.lock"

// Request describes a single transcription run.
type Request struct {
	URL        string
	OutputPath string
	Split      bool
	MaxWords   int
	Format     transcript.Format
}

// Result reports what a completed run produced.
type Result struct {
	RunID     string
	Reference videoref.Reference
	Outputs   []string
	Segments  int
}

// Pipeline coordinates the download, transcription, and rendering services
// for one run at a time.
type Pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	downloader  ytdlp.Downloader
	transcriber whisper.Transcriber
	store       *history.Store
}

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithDownloader replaces the yt-dlp backed downloader.
func WithDownloader(d ytdlp.Downloader) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.downloader = d
		}
	}
}

// WithTranscriber replaces the whisperx backed transcriber.
func WithTranscriber(t whisper.Transcriber) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.transcriber = t
		}
	}
}

// WithHistory records run outcomes in the given store. A nil store leaves
// history disabled.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.downloader == nil {
		p.downloader = ytdlp.New(cfg.YtdlpBinary())
	}
	if p.transcriber == nil {
		p.transcriber = whisper.NewService(whisper.Config{
			Model:       cfg.Whisper.Model,
			CUDAEnabled: cfg.Whisper.CUDAEnabled,
			ComputeType: cfg.Whisper.ComputeType,
			BeamSize:    cfg.Whisper.BeamSize,
			Language:    cfg.Whisper.Language,
		})
	}
	return p
}

// Run executes one transcription run. The URL is classified before any
// filesystem state is touched, so unsupported platforms never leave temp
// files behind. The scratch audio file is removed on every exit path.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, p.logger)

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "configuring", "ensure-directories", "create work and log directories", err)
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrInvariant, "locking", "flock", "acquire work directory lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrInvariant, "locking", "flock", "another run is already using the work directory", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release work directory lock", logging.Error(err))
		}
	}()

	log.Info("run starting",
		logging.String("url", req.URL),
		logging.String(logging.FieldStage, stageClassifying))
	log.Debug("run configuration",
		logging.String("work_dir", p.cfg.Paths.WorkDir),
		logging.String("output_dir", p.cfg.Paths.OutputDir),
		logging.String("audio_codec", p.audioCodec()),
		logging.String("whisper_model", p.cfg.Whisper.Model),
		logging.Bool("cuda", p.cfg.Whisper.CUDAEnabled),
		logging.Bool("split", req.Split),
		logging.Int("max_words", req.MaxWords),
		logging.String("format", string(req.Format)))

	ref := videoref.Classify(req.URL)
	p.recordStart(ctx, log, runID, req.URL, ref)
	if !ref.Supported() {
		err := services.Wrap(services.ErrUnsupportedPlatform, stageClassifying, "classify",
			fmt.Sprintf("no supported platform recognized in %q", req.URL), nil)
		return nil, p.fail(ctx, log, runID, err)
	}
	log.Info("video classified",
		logging.String("platform", string(ref.Platform)),
		logging.String("video_id", ref.VideoID))

	outputPath, defaulted, err := p.resolveOutputPath(req, ref)
	if err != nil {
		return nil, p.fail(ctx, log, runID, err)
	}
	if p.cfg.Output.CleanExisting && defaulted {
		p.cleanExisting(log, outputPath)
	}

	segments, err := p.acquireSegments(ctx, req.URL, ref)
	if err != nil {
		return nil, p.fail(ctx, log, runID, err)
	}
	log.Info("transcription complete", logging.Int("segments", len(segments)))

	groups, err := p.chunk(req, segments)
	if err != nil {
		return nil, p.fail(ctx, log, runID, err)
	}

	outputs, err := p.render(logging.WithContext(services.WithStage(ctx, stageRendering), p.logger), groups, outputPath, req.Format)
	if err != nil {
		return nil, p.fail(ctx, log, runID, err)
	}

	p.recordCompleted(ctx, log, runID, outputs)
	log.Info("run completed",
		logging.Int("artifacts", len(outputs)),
		logging.String("output", outputs[0]))
	return &Result{
		RunID:     runID,
		Reference: ref,
		Outputs:   outputs,
		Segments:  len(segments),
	}, nil
}

// acquireSegments downloads the audio and transcribes it. The temp audio
// file lives only for the duration of this call. Stage names travel on the
// context so log records carry them without per-call attrs.
func (p *Pipeline) acquireSegments(ctx context.Context, url string, ref videoref.Reference) ([]transcript.Segment, error) {
	ctx = services.WithStage(ctx, stageDownloading)
	log := logging.WithContext(ctx, p.logger)

	temp := newTempAudio(p.cfg.Paths.WorkDir, p.audioCodec())
	defer func() {
		if err := temp.Release(); err != nil {
			log.Warn("failed to remove temp audio", logging.String("path", temp.Path()), logging.Error(err))
		}
	}()

	log.Info("downloading audio", logging.String("path", temp.Path()))
	opts := ytdlp.BuildOptions(ref, temp.Path(), p.downloadSettings())
	if err := p.downloader.Download(ctx, url, ref, opts); err != nil {
		return nil, services.Wrap(services.ErrDownload, stageDownloading, "yt-dlp", "download audio", err)
	}

	ctx = services.WithStage(ctx, stageTranscribing)
	logging.WithContext(ctx, p.logger).Info("transcribing audio")
	segments, err := p.transcriber.Transcribe(ctx, temp.Path(), p.cfg.Paths.WorkDir)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, stageTranscribing, "whisperx", "transcribe audio", err)
	}
	return segments, nil
}

func (p *Pipeline) chunk(req Request, segments []transcript.Segment) ([]transcript.Group, error) {
	if !req.Split {
		return []transcript.Group{transcript.Group(segments)}, nil
	}
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = p.cfg.Output.DefaultMaxWords
	}
	groups, err := transcript.Chunk(segments, maxWords)
	if err != nil {
		return nil, services.Wrap(services.ErrInvariant, stageChunking, "chunk", "group segments by word count", err)
	}
	return groups, nil
}

func (p *Pipeline) render(log *slog.Logger, groups []transcript.Group, outputPath string, format transcript.Format) ([]string, error) {
	paths := transcript.ArtifactPaths(outputPath, len(groups))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrOutput, stageRendering, "mkdir", fmt.Sprintf("create output directory for %s", outputPath), err)
	}
	for i, group := range groups {
		content, err := transcript.Render(group, format)
		if err != nil {
			return nil, services.Wrap(services.ErrInvariant, stageRendering, "render", "render transcript group", err)
		}
		if err := fileutil.WriteFileAtomic(paths[i], []byte(content), 0o644); err != nil {
			return nil, services.Wrap(services.ErrOutput, stageRendering, "write", fmt.Sprintf("write %s", paths[i]), err)
		}
		log.Info("artifact written",
			logging.String("path", paths[i]),
			logging.Int("segments", len(group)))
	}
	return paths, nil
}

// resolveOutputPath returns the artifact path for the run and whether it was
// derived from the video reference rather than supplied by the caller.
func (p *Pipeline) resolveOutputPath(req Request, ref videoref.Reference) (string, bool, error) {
	path := strings.TrimSpace(req.OutputPath)
	defaulted := path == ""
	if defaulted {
		path = ref.DefaultOutputName()
		if ext := req.Format.Extension(); ext != "" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ext
		}
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", false, services.Wrap(services.ErrConfiguration, "configuring", "output-path", fmt.Sprintf("expand %q", path), err)
	}
	path = expanded
	if !filepath.IsAbs(path) && p.cfg.Paths.OutputDir != "" {
		path = filepath.Join(p.cfg.Paths.OutputDir, path)
	}
	return path, defaulted, nil
}

// cleanExisting removes prior artifacts sharing the default base name so a
// re-run does not interleave stale part files with fresh ones. Failures are
// logged and ignored; the run proceeds either way.
func (p *Pipeline) cleanExisting(log *slog.Logger, outputPath string) {
	ext := filepath.Ext(outputPath)
	prefix := strings.TrimSuffix(filepath.Base(outputPath), ext)
	removed, err := fileutil.RemoveMatching(filepath.Dir(outputPath), prefix, ext)
	if err != nil {
		log.Warn("failed to clean existing artifacts", logging.Error(err))
		return
	}
	for _, path := range removed {
		log.Info("removed existing artifact", logging.String("path", path))
	}
}

func (p *Pipeline) downloadSettings() ytdlp.Settings {
	return ytdlp.Settings{
		Format:             p.cfg.Download.Format,
		AudioCodec:         p.cfg.Download.AudioCodec,
		AudioQuality:       p.cfg.Download.AudioQuality,
		CookiesFromBrowser: p.cfg.Download.CookiesFromBrowser,
		BilibiliCookie:     p.cfg.Download.BilibiliCookie,
	}
}

func (p *Pipeline) audioCodec() string {
	if codec := strings.TrimSpace(p.cfg.Download.AudioCodec); codec != "" {
		return codec
	}
	return ytdlp.DefaultAudioCodec
}

func (p *Pipeline) recordStart(ctx context.Context, log *slog.Logger, runID, url string, ref videoref.Reference) {
	if p.store == nil {
		return
	}
	if _, err := p.store.RecordStart(ctx, runID, url, string(ref.Platform), ref.VideoID); err != nil {
		log.Warn("failed to record run start", logging.Error(err))
	}
}

func (p *Pipeline) recordCompleted(ctx context.Context, log *slog.Logger, runID string, outputs []string) {
	if p.store == nil {
		return
	}
	if err := p.store.MarkCompleted(ctx, runID, outputs); err != nil {
		log.Warn("failed to record run completion", logging.Error(err))
	}
}

// fail marks the run failed in history and logs the terminal error before
// handing it back to the caller.
func (p *Pipeline) fail(ctx context.Context, log *slog.Logger, runID string, err error) error {
	if p.store != nil {
		if storeErr := p.store.MarkFailed(ctx, runID, err); storeErr != nil {
			log.Warn("failed to record run failure", logging.Error(storeErr))
		}
	}
	log.Error("run failed",
		logging.String(logging.FieldStage, services.Stage(err)),
		logging.Error(err))
	return err
}
