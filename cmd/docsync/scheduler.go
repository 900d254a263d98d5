package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const everyPrefix = "@every "

type scheduledJob struct {
	interval time.Duration
	run      func() error
}

// intervalScheduler runs jobs registered with "@every <duration>"
// expressions until its context ends.
type intervalScheduler struct {
	mu     sync.Mutex
	jobs   []scheduledJob
	logger interfaces.Logger
}

func newIntervalScheduler(logger interfaces.Logger) *intervalScheduler {
	return &intervalScheduler{logger: logging.Ensure(logger)}
}

// Register matches mirrorcmd.CronRegistrar.
func (s *intervalScheduler) Register(cfg command.HandlerConfig, handler any) error {
	expr := strings.TrimSpace(cfg.Expression)
	if !strings.HasPrefix(expr, everyPrefix) {
		return fmt.Errorf("unsupported schedule expression %q", cfg.Expression)
	}
	interval, err := time.ParseDuration(strings.TrimPrefix(expr, everyPrefix))
	if err != nil || interval <= 0 {
		return fmt.Errorf("invalid schedule interval %q", cfg.Expression)
	}
	fn, ok := handler.(func() error)
	if !ok {
		return fmt.Errorf("unsupported scheduled handler %T", handler)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, scheduledJob{interval: interval, run: fn})
	s.mu.Unlock()
	return nil
}

// Run blocks until ctx is done. A failing job is logged and rescheduled.
func (s *intervalScheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]scheduledJob(nil), s.jobs...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(id int, job scheduledJob) {
			defer wg.Done()
			ticker := time.NewTicker(job.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := job.run(); err != nil {
						s.logger.Error("cli.schedule.job_failed", "job", id, "interval", job.interval.String(), "error", err)
					}
				}
			}
		}(i, job)
	}
	wg.Wait()
	return nil
}
