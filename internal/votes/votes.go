// Package votes casts votes and re-reads the affected counts from the server.
// Counts are never adjusted locally; the server owns the toggle semantics.
package votes

import (
	"context"
	"fmt"

	"crowdfix/internal/errs"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"

	"go.uber.org/zap"
)

type Voter interface {
	Vote(ctx context.Context, solutionID string, dir models.Direction) error
}

// Cache is the part of store.Store the engine needs.
type Cache interface {
	GetSolution(id string) (models.Solution, bool)
	RefreshSolutions(ctx context.Context, problemID string) error
}

type Engine struct {
	voter Voter
	cache Cache
}

func NewEngine(voter Voter, cache Cache) *Engine {
	return &Engine{voter: voter, cache: cache}
}

// Vote sends dir for solutionID and returns the solution as re-fetched
// afterwards. If the vote is accepted but the re-fetch fails the refresh
// error is returned and the cache keeps the old counts.
func (e *Engine) Vote(ctx context.Context, solutionID string, dir models.Direction) (models.Solution, error) {
	const op = "votes.vote"

	if dir != models.DirectionUp && dir != models.DirectionDown {
		return models.Solution{}, errs.Validation(op, fmt.Errorf("unknown direction %q", dir))
	}
	sol, ok := e.cache.GetSolution(solutionID)
	if !ok {
		return models.Solution{}, errs.Validation(op, fmt.Errorf("solution %s is not loaded", solutionID))
	}

	if err := e.voter.Vote(ctx, solutionID, dir); err != nil {
		logger.Log.Warn("Vote failed",
			zap.String("solution_id", solutionID),
			zap.String("direction", string(dir)),
			zap.Error(err))
		return models.Solution{}, err
	}

	if err := e.cache.RefreshSolutions(ctx, sol.ProblemID); err != nil {
		return models.Solution{}, fmt.Errorf("failed to refresh solutions after vote: %w", err)
	}

	updated, ok := e.cache.GetSolution(solutionID)
	if !ok {
		return models.Solution{}, errs.Decode(op, fmt.Errorf("solution %s missing from refreshed problem %s", solutionID, sol.ProblemID))
	}

	logger.Log.Debug("Vote recorded",
		zap.String("solution_id", solutionID),
		zap.String("direction", string(dir)),
		zap.Int("upvotes", updated.UpvoteCount),
		zap.Int("downvotes", updated.DownvoteCount))

	return updated, nil
}
