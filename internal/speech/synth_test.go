package speech

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSynthesizerFilename(t *testing.T) {
	s, err := NewSynthesizer(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}

	tests := []struct {
		word string
		want string
	}{
		{"ship", "word_ship.mp3"},
		{"Ship", "word_ship.mp3"},
		{"  ship  ", "word_ship.mp3"},
		{"ice cream", "word_ice_cream.mp3"},
	}
	for _, tt := range tests {
		if got := s.Filename(tt.word); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSynthesizerEnsureUsesCache(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSynthesizer(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}

	// Seed the cache; Ensure must return without any network fetch.
	cached := filepath.Join(dir, s.Filename("ship"))
	if err := os.WriteFile(cached, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	filename, err := s.Ensure(context.Background(), "ship")
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if filename != "word_ship.mp3" {
		t.Errorf("Ensure() = %q, want %q", filename, "word_ship.mp3")
	}
}

func TestSynthesizerPrewarmSkipsCached(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSynthesizer(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}

	for _, w := range []string{"cat", "dog"} {
		path := filepath.Join(dir, s.Filename(w))
		if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}

	if got := s.Prewarm(context.Background(), []string{"cat", "dog"}); got != 2 {
		t.Errorf("Prewarm() = %d, want 2", got)
	}
}

func TestSynthesizerPrewarmHonorsCancellation(t *testing.T) {
	s, err := NewSynthesizer(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := s.Prewarm(ctx, []string{"cat", "dog"}); got != 0 {
		t.Errorf("Prewarm() with cancelled context = %d, want 0", got)
	}
}
