package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatsSource provides functions to retrieve current counts for gauge
// metrics. Nil functions are skipped.
type StatsSource struct {
	UserCount    func() int
	PostCount    func() int
	CommentCount func() int
}

// StartCollector launches a goroutine that periodically updates gauge
// metrics. It runs every interval until the context is cancelled.
func StartCollector(ctx context.Context, src StatsSource, interval time.Duration) {
	// Do an initial collection immediately
	collect(src)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect(src)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Metrics collector started")
}

func collect(src StatsSource) {
	if src.UserCount != nil {
		UsersTotal.Set(float64(src.UserCount()))
	}
	if src.PostCount != nil {
		PostsTotal.Set(float64(src.PostCount()))
	}
	if src.CommentCount != nil {
		CommentsTotal.Set(float64(src.CommentCount()))
	}
}
