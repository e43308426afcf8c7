package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/services"
)

func TestWithContextAddsRunFields(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	logger, err := New(Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatal(err)
	}

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithStage(ctx, "downloading")
	WithContext(ctx, logger).Info("fetching audio")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "run_id=run-42") {
		t.Fatalf("run id missing: %q", line)
	}
	if !strings.Contains(line, "stage=downloading") {
		t.Fatalf("stage missing: %q", line)
	}
}

func TestWithContextBareContextReturnsLoggerUnchanged(t *testing.T) {
	logger := NewNop()
	if got := WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the original logger when the context carries no fields")
	}
}

func TestContextFieldsNilContext(t *testing.T) {
	if fields := ContextFields(nil); fields != nil {
		t.Fatalf("expected no fields, got %v", fields)
	}
}
