package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const synthRequestTimeout = 10 * time.Second

// Synthesizer fetches per-word MP3s into an on-disk cache so the summary
// view can replay words without going through the browser's speech engine.
// It is strictly best-effort: a failed fetch degrades to silence, never to
// an error surfaced to the learner.
type Synthesizer struct {
	audioDir string
	client   *http.Client
	log      zerolog.Logger
}

// NewSynthesizer creates a synthesizer caching into audioDir, creating the
// directory if needed.
func NewSynthesizer(audioDir string, log zerolog.Logger) (*Synthesizer, error) {
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Synthesizer{
		audioDir: audioDir,
		client:   &http.Client{Timeout: synthRequestTimeout},
		log:      log.With().Str("component", "synth").Logger(),
	}, nil
}

// Filename returns the cache filename for a word without synthesizing it.
func (s *Synthesizer) Filename(word string) string {
	sanitized := strings.ToLower(strings.TrimSpace(word))
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	return "word_" + sanitized + ".mp3"
}

// Ensure synthesizes word into the cache unless a cached file already
// exists. Returns the cache filename.
func (s *Synthesizer) Ensure(ctx context.Context, word string) (string, error) {
	filename := s.Filename(word)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetch(ctx, word, path); err != nil {
		return "", fmt.Errorf("synthesize %q: %w", word, err)
	}
	return filename, nil
}

// fetch pulls an MP3 from the Google Translate TTS endpoint, which requires
// no API key, and writes it to path.
func (s *Synthesizer) fetch(ctx context.Context, word, path string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", word)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(word)))

	reqURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, synthRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// The endpoint rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

// Prewarm synthesizes all given words, skipping ones already cached.
// Individual failures are logged and skipped.
func (s *Synthesizer) Prewarm(ctx context.Context, words []string) int {
	warmed := 0
	for _, w := range words {
		if ctx.Err() != nil {
			return warmed
		}
		if _, err := s.Ensure(ctx, w); err != nil {
			s.log.Warn().Err(err).Str("word", w).Msg("Prewarm skipped word")
			continue
		}
		warmed++
	}
	return warmed
}
