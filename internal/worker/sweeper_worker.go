package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/game"
)

const sweepInterval = time.Minute

// SweeperWorker periodically discards sessions whose client went away
// without deleting them. A browser tab closed mid-game leaves a session
// goroutine and its question sequence in memory until swept.
type SweeperWorker struct {
	manager *game.Manager
	log     zerolog.Logger
}

func NewSweeperWorker(manager *game.Manager, log zerolog.Logger) *SweeperWorker {
	return &SweeperWorker{
		manager: manager,
		log:     log.With().Str("component", "sweeper_worker").Logger(),
	}
}

func (w *SweeperWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SweeperWorker started")

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return
		case <-ticker.C:
			if n := w.manager.Sweep(); n > 0 {
				w.log.Info().Int("swept", n).Int("live", w.manager.Count()).Msg("Swept stale sessions")
			}
		}
	}
}
