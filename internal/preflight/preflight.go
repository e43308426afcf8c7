package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the floor for free space in the work directory. A
// bestaudio download plus engine output stays comfortably under this.
const minFreeBytes = 2 << 30

// RunAll executes all preflight checks for the given config: external
// binaries on PATH, work directory access, and free disk space.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range deps.CheckBinaries(Requirements(cfg)) {
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: binaryDetail(status),
		})
	}

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckDiskSpace("Work directory space", cfg.Paths.WorkDir))

	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Requirements lists the external tools a transcription run needs.
func Requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.YtdlpBinary(),
			Description: "Required for audio downloads",
		},
		{
			Name:        "uvx",
			Command:     cfg.UvxBinary(),
			Description: "Required to launch WhisperX",
		},
	}
}

func binaryDetail(status deps.Status) string {
	if status.Available {
		return "found on PATH"
	}
	return status.Detail
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has room for a
// download plus transcription output.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, need %.1f GiB)", path, gib(free), gib(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, gib(free))}
}

func gib(bytes uint64) float64 {
	return float64(bytes) / float64(1<<30)
}
