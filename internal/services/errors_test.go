package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := Wrap(ErrDownload, "downloading", "yt-dlp", "fetch failed", underlying)
	if !errors.Is(err, ErrDownload) {
		t.Fatal("wrapped error lost marker")
	}
	if !errors.Is(err, underlying) {
		t.Fatal("wrapped error lost cause")
	}
}

func TestWrapNilMarkerDefaultsToInvariant(t *testing.T) {
	err := Wrap(nil, "chunking", "", "", nil)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant marker, got %v", err)
	}
}

func TestWrapDetailComposition(t *testing.T) {
	err := Wrap(ErrTranscription, "transcribing", "whisperx", "no output", nil)
	want := "transcription error: transcribing: whisperx: no output"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestStage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Wrap(ErrUnsupportedPlatform, "classifying", "", "", nil), "classifying"},
		{Wrap(ErrDownload, "downloading", "", "", nil), "downloading"},
		{Wrap(ErrTranscription, "transcribing", "", "", nil), "transcribing"},
		{Wrap(ErrOutput, "rendering", "", "", nil), "rendering"},
		{Wrap(ErrInvariant, "chunking", "", "", nil), "internal"},
		{errors.New("plain"), ""},
	}
	for _, tc := range cases {
		if got := Stage(tc.err); got != tc.want {
			t.Errorf("Stage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
