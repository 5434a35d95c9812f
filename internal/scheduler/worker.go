package scheduler

import (
	"context"
	"log"
	"time"
)

// Worker invokes the runner on a fixed interval until the context is
// cancelled. External cron can hit the run endpoint instead; both paths share
// the same claim, so overlap is safe.
type Worker struct {
	Runner   *Runner
	Interval time.Duration
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
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
			res, err := w.Runner.Run(ctx)
			if err != nil {
				log.Printf("scheduler run error: %v\n", err)
				continue
			}
			if res.Processed > 0 {
				log.Printf("scheduler processed %d schedules\n", res.Processed)
			}
		}
	}
}
