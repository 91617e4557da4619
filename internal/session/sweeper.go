package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper reclaims expired entries.
type Sweeper interface {
	Sweep() int
}

// RunSweeper calls Sweep on every target each interval until ctx is done.
// Run it in its own goroutine.
func RunSweeper(ctx context.Context, interval time.Duration, targets ...Sweeper) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, t := range targets {
				if n := t.Sweep(); n > 0 {
					log.Debug().Int("removed", n).Type("target", t).Msg("Swept expired entries")
				}
			}
		}
	}
}
