package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"scribe/internal/videoref"
)

// DefaultBinary is the yt-dlp executable name.
const DefaultBinary = "yt-dlp"

// Downloader defines the behaviour the pipeline needs from the
// download collaborator.
type Downloader interface {
	Download(ctx context.Context, url string, ref videoref.Reference, opts Options) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Download fetches and extracts audio for the URL. The tool output is
// retained so known platform-specific failures can be annotated with
// remediation guidance.
func (c *Client) Download(ctx context.Context, url string, ref videoref.Reference, opts Options) error {
	tail := newLineTail(40)
	err := c.exec.Run(ctx, c.binary, opts.args(url), tail.add)
	if err == nil {
		return nil
	}
	if hint := remediationHint(ref.Platform, tail.String()); hint != "" {
		return fmt.Errorf("yt-dlp: %w: %s (%s)", err, tail.Last(), hint)
	}
	if last := tail.Last(); last != "" {
		return fmt.Errorf("yt-dlp: %w: %s", err, last)
	}
	return fmt.Errorf("yt-dlp: %w", err)
}

// remediationHint maps known failure output to operator guidance. The
// failure stays terminal either way; the hint only helps the caller
// decide what to fix before retrying by hand.
func remediationHint(platform videoref.Platform, output string) string {
	lowered := strings.ToLower(output)
	switch platform {
	case videoref.PlatformYouTube:
		if strings.Contains(lowered, "sign in to confirm") || strings.Contains(lowered, "not a bot") {
			return "YouTube raised a bot check; sign in with the configured browser so yt-dlp can reuse its cookies"
		}
	case videoref.PlatformBilibili:
		if strings.Contains(lowered, "login") || strings.Contains(lowered, "authorization") || strings.Contains(lowered, "403") {
			return "Bilibili rejected the request; set BILIBILI_COOKIE to a valid session cookie"
		}
	}
	return ""
}

// lineTail retains the last n non-empty output lines. The executor feeds
// it from the stdout and stderr scan goroutines concurrently, so all
// access to lines goes through the mutex.
type lineTail struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func newLineTail(limit int) *lineTail {
	return &lineTail{limit: limit}
}

func (t *lineTail) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *lineTail) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.lines) == 0 {
		return ""
	}
	return t.lines[len(t.lines)-1]
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			} else {
				fmt.Fprintln(os.Stderr, scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

var _ Downloader = (*Client)(nil)
