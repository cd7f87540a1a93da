// Package workflow moves solutions between PENDING, ACCEPTED and REJECTED.
package workflow

import (
	"context"
	"fmt"

	"crowdfix/internal/errs"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"

	"go.uber.org/zap"
)

type StatusUpdater interface {
	UpdateSolutionStatus(ctx context.Context, id, problemID string, status models.Status) (models.Solution, error)
}

type Cache interface {
	GetSolution(id string) (models.Solution, bool)
	PutSolution(sol models.Solution)
}

type Workflow struct {
	remote StatusUpdater
	cache  Cache
}

func New(remote StatusUpdater, cache Cache) *Workflow {
	return &Workflow{remote: remote, cache: cache}
}

// Transition asks the server to set the status of a cached solution. Any of
// the three statuses may be requested from any other, PENDING included. The
// server's copy of the solution replaces the cached one.
func (w *Workflow) Transition(ctx context.Context, solutionID string, status models.Status) (models.Solution, error) {
	const op = "workflow.transition"

	if !status.Valid() {
		return models.Solution{}, errs.Validation(op, fmt.Errorf("unknown status %q", status))
	}
	cached, ok := w.cache.GetSolution(solutionID)
	if !ok {
		return models.Solution{}, errs.Validation(op, fmt.Errorf("solution %s is not loaded", solutionID))
	}

	updated, err := w.remote.UpdateSolutionStatus(ctx, solutionID, cached.ProblemID, status)
	if err != nil {
		logger.Log.Warn("Status change failed",
			zap.String("solution_id", solutionID),
			zap.String("status", string(status)),
			zap.Error(err))
		return models.Solution{}, err
	}

	w.cache.PutSolution(updated)

	logger.Log.Info("Solution status changed",
		zap.String("solution_id", solutionID),
		zap.String("from", string(cached.Status)),
		zap.String("to", string(updated.Status)))

	return updated, nil
}
