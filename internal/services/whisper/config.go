package whisper

// Config captures runtime settings for transcription runs.
type Config struct {
	// Model is the Whisper model to use (e.g., "base", "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// ComputeType overrides the inference precision (e.g., "float16").
	ComputeType string
	// BeamSize controls decoding effort. Zero uses the default.
	BeamSize int
	// Language pins the transcription language; empty autodetects.
	Language string
}

// Transcription configuration constants. Temperature is pinned to zero
// so repeated runs over the same audio decode deterministically.
const (
	DefaultModel    = "base"
	DefaultBeamSize = 5
	Temperature     = "0.0"
	BatchSize       = "8"
	OutputFormat    = "json"
	CPUDevice       = "cpu"
	CUDADevice      = "cuda"
	CPUComputeType  = "float32"
	CUDAComputeType = "float16"
	PypiIndexURL    = "https://pypi.org/simple"
	CUDAIndexURL    = "https://download.pytorch.org/whl/cu128"
)

// UVXCommand launches WhisperX through uvx so no local install is needed.
const UVXCommand = "uvx"
