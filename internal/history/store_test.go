package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordStartAndComplete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.RecordStart(ctx, "run-1", "https://youtu.be/dQw4w9WgXcQ", "youtube", "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusRunning {
		t.Fatalf("status = %s", run.Status)
	}
	if run.Platform != "youtube" || run.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("run = %+v", run)
	}

	outputs := []string{"youtube_dQw4w9WgXcQ.txt"}
	if err := store.MarkCompleted(ctx, "run-1", outputs); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s", got.Status)
	}
	if len(got.Outputs) != 1 || got.Outputs[0] != outputs[0] {
		t.Fatalf("outputs = %v", got.Outputs)
	}
}

func TestMarkFailed(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordStart(ctx, "run-2", "https://example.com/x", "unknown", ""); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkFailed(ctx, "run-2", errors.New("unsupported platform")); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByRunID(ctx, "run-2")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("status = %s", got.Status)
	}
	if got.ErrorText != "unsupported platform" {
		t.Fatalf("error text = %q", got.ErrorText)
	}
	if got.VideoID != "" {
		t.Fatalf("video id = %q", got.VideoID)
	}
}

func TestMarkMissingRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.MarkCompleted(context.Background(), "ghost", nil); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.RecordStart(ctx, id, "https://youtu.be/"+id, "youtube", id); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("order = %s, %s", runs[0].RunID, runs[1].RunID)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d runs for unlimited list", len(all))
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordStart(ctx, "x", "https://youtu.be/x", "youtube", "x"); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("runs remain: %v", runs)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordStart(context.Background(), "keep", "https://youtu.be/k", "youtube", "k"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	runs, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "keep" {
		t.Fatalf("runs = %+v", runs)
	}
}
