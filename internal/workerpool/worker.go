package workerpool

import (
	"context"
	"fmt"
	"sync"

	"crowdfix/internal/logger"

	"go.uber.org/zap"
)

// Job is one unit of work. Name identifies it in logs and errors.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type result struct {
	job string
	err error
}

type Worker struct {
	id      string
	jobs    <-chan Job
	results chan<- result
}

func newWorker(id string, jobs <-chan Job, results chan<- result) *Worker {
	return &Worker{
		id:      id,
		jobs:    jobs,
		results: results,
	}
}

// Start consumes jobs until the channel is closed. Jobs dequeued after ctx is
// done are reported with ctx.Err() without running.
func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		for job := range w.jobs {
			if err := ctx.Err(); err != nil {
				w.results <- result{job: job.Name, err: err}
				continue
			}
			w.results <- result{job: job.Name, err: w.process(ctx, job)}
		}
		logger.Log.Debug("Worker finished", zap.String("worker_id", w.id))
	}()
}

func (w *Worker) process(ctx context.Context, job Job) (err error) {
	logger.Log.Debug("Processing job",
		zap.String("worker_id", w.id),
		zap.String("job", job.Name))

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Job panicked",
				zap.String("worker_id", w.id),
				zap.String("job", job.Name),
				zap.Any("panic", r))
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()

	if err := job.Run(ctx); err != nil {
		logger.Log.Warn("Job failed",
			zap.String("worker_id", w.id),
			zap.String("job", job.Name),
			zap.Error(err))
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	return nil
}
