package worker

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/speech"
)

// PrewarmWorker renders every bank word to a cached dictation clip at
// startup, so the first learner to hit a word never waits on synthesis.
// It runs once and exits; already-cached words are skipped.
type PrewarmWorker struct {
	library *content.Library
	synth   *speech.Synthesizer
	log     zerolog.Logger
}

func NewPrewarmWorker(library *content.Library, synth *speech.Synthesizer, log zerolog.Logger) *PrewarmWorker {
	return &PrewarmWorker{
		library: library,
		synth:   synth,
		log:     log.With().Str("component", "prewarm_worker").Logger(),
	}
}

func (w *PrewarmWorker) Start(ctx context.Context) {
	words := w.allWords()
	w.log.Info().Int("words", len(words)).Msg("PrewarmWorker started")

	done := w.synth.Prewarm(ctx, words)

	if ctx.Err() != nil {
		w.log.Info().Int("rendered", done).Msg("Shutdown requested mid-prewarm")
		return
	}
	w.log.Info().Int("rendered", done).Msg("Prewarm complete")
}

// allWords flattens the bank into a deduplicated word list.
func (w *PrewarmWorker) allWords() []string {
	seen := make(map[string]struct{})
	var words []string
	for _, q := range w.library.Questions() {
		for _, word := range q.Choices {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	return words
}
