package store

import (
	"context"

	"crowdfix/internal/errs"
	"crowdfix/internal/models"
)

func (s *Store) RefreshSolutions(ctx context.Context, problemID string) error {
	solutions, err := s.remote.ListSolutions(ctx, problemID)
	if err != nil {
		logRefreshFailure(KindSolution, problemID, err)
		return err
	}

	s.mu.Lock()
	s.solutions.replaceScope(problemID, solutions)
	s.mu.Unlock()

	s.emit(Event{Kind: KindSolution, Op: OpRefresh, Scope: problemID})
	return nil
}

// Solutions lists every cached solution whose problem is also cached.
func (s *Store) Solutions() []models.Solution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.solutions.list()
	out := make([]models.Solution, 0, len(all))
	for _, sol := range all {
		if _, ok := s.problems.get(sol.ProblemID); ok {
			out = append(out, sol)
		}
	}
	return out
}

// SolutionsOf lists the cached solutions of one problem. It is empty while
// the problem itself is not cached.
func (s *Store) SolutionsOf(problemID string) []models.Solution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.problems.get(problemID); !ok {
		return []models.Solution{}
	}
	return s.solutions.listScope(problemID)
}

// GetSolution looks a solution up regardless of whether its problem is cached.
func (s *Store) GetSolution(id string) (models.Solution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.solutions.get(id)
}

// PutSolution replaces a cached solution with a server-confirmed copy.
func (s *Store) PutSolution(sol models.Solution) {
	s.mu.Lock()
	s.solutions.upsert(sol)
	s.mu.Unlock()

	s.emit(Event{Kind: KindSolution, Op: OpUpdate, ID: sol.ID, Scope: sol.ProblemID})
}

// CreateSolution submits a new PENDING solution authored by the signed-in user.
func (s *Store) CreateSolution(ctx context.Context, problemID string, draft models.SolutionDraft) (models.Solution, error) {
	const op = "store.create_solution"
	if err := draft.Validate(); err != nil {
		return models.Solution{}, errs.Validation(op, err)
	}
	user, err := s.requireSession(op)
	if err != nil {
		return models.Solution{}, err
	}

	sol, err := s.remote.CreateSolution(ctx, problemID, user, draft)
	if err != nil {
		return models.Solution{}, err
	}

	s.mu.Lock()
	s.solutions.upsert(sol)
	s.mu.Unlock()

	s.emit(Event{Kind: KindSolution, Op: OpCreate, ID: sol.ID, Scope: sol.ProblemID})
	return sol, nil
}

func (s *Store) UpdateSolution(ctx context.Context, id string, draft models.SolutionDraft) (models.Solution, error) {
	const op = "store.update_solution"
	if err := draft.Validate(); err != nil {
		return models.Solution{}, errs.Validation(op, err)
	}
	cached, ok := s.GetSolution(id)
	if err := s.authorize(op, KindSolution, id, cached, ok); err != nil {
		return models.Solution{}, err
	}

	sol, err := s.remote.UpdateSolutionDescription(ctx, id, cached.ProblemID, draft)
	if err != nil {
		return models.Solution{}, err
	}

	s.mu.Lock()
	s.solutions.upsert(sol)
	s.mu.Unlock()

	s.emit(Event{Kind: KindSolution, Op: OpUpdate, ID: sol.ID, Scope: sol.ProblemID})
	return sol, nil
}

func (s *Store) RemoveSolution(ctx context.Context, id string) error {
	const op = "store.remove_solution"
	cached, ok := s.GetSolution(id)
	if err := s.authorize(op, KindSolution, id, cached, ok); err != nil {
		return err
	}

	if err := s.remote.DeleteSolution(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.solutions.remove(id)
	s.comments.dropScope(id)
	s.mu.Unlock()

	s.emit(Event{Kind: KindSolution, Op: OpRemove, ID: id, Scope: cached.ProblemID})
	return nil
}
