package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"scribe/internal/transcript"
)

// Transcriber defines the behaviour the pipeline needs from the
// transcription collaborator: turn an audio file into a fully
// materialized, ordered segment sequence.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, workDir string) ([]transcript.Segment, error)
}

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Transcribe runs WhisperX over the audio file and returns the ordered
// segment sequence from its JSON output. The sequence is materialized in
// full before returning; downstream chunking needs the whole run, not a
// stream. workDir receives the engine's output files.
func (s *Service) Transcribe(ctx context.Context, audioPath, workDir string) ([]transcript.Segment, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	args := s.buildArgs(audioPath, workDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, baseName+".json")

	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisperx output: %w", err)
	}
	return segments, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := make([]string, 0, 24)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}
	beamSize := s.cfg.BeamSize
	if beamSize <= 0 {
		beamSize = DefaultBeamSize
	}

	args = append(args,
		"whisperx",
		audioPath,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--beam_size", strconv.Itoa(beamSize),
		"--temperature", Temperature,
	)

	if lang := strings.TrimSpace(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice, "--compute_type", computeType(s.cfg.ComputeType, CUDAComputeType))
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", computeType(s.cfg.ComputeType, CPUComputeType))
	}

	return args
}

func computeType(configured, fallback string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	return fallback
}

// segmentPayload matches one segment object in WhisperX JSON output.
type segmentPayload struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []segmentPayload `json:"segments"`
}

// LoadSegments loads the ordered segment sequence from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]transcript.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	segments := make([]transcript.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return segments, nil
}

var _ Transcriber = (*Service)(nil)
