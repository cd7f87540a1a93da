// Package workerpool fans independent jobs out over a fixed number of
// goroutines and collects their errors.
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"crowdfix/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Pool struct {
	numWorkers int
}

func NewPool(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{numWorkers: numWorkers}
}

// Run executes every job and waits for all of them. The returned error
// combines each failure; use multierr.Errors to inspect them one by one.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	queue := make(chan Job)
	results := make(chan result, len(jobs))

	workers := p.numWorkers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		newWorker(fmt.Sprintf("Worker-%d", i+1), queue, results).Start(ctx, &wg)
	}

	logger.Log.Debug("Worker pool started",
		zap.Int("num_workers", workers),
		zap.Int("num_jobs", len(jobs)))

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
	close(results)

	var err error
	failed := 0
	for r := range results {
		if r.err != nil {
			failed++
			err = multierr.Append(err, r.err)
		}
	}

	logger.Log.Debug("Worker pool finished",
		zap.Int("num_jobs", len(jobs)),
		zap.Int("failed", failed))

	return err
}
