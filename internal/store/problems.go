package store

import (
	"context"

	"crowdfix/internal/errs"
	"crowdfix/internal/models"
)

func (s *Store) RefreshProblems(ctx context.Context) error {
	problems, err := s.remote.ListProblems(ctx)
	if err != nil {
		logRefreshFailure(KindProblem, "", err)
		return err
	}

	s.mu.Lock()
	s.problems.replaceScope("", problems)
	s.mu.Unlock()

	s.emit(Event{Kind: KindProblem, Op: OpRefresh})
	return nil
}

// Problems returns the cached problems in server order.
func (s *Store) Problems() []models.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.problems.list()
}

func (s *Store) GetProblem(id string) (models.Problem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.problems.get(id)
}

// FetchProblem loads one problem from the server and caches it.
func (s *Store) FetchProblem(ctx context.Context, id string) (models.Problem, error) {
	p, err := s.remote.GetProblem(ctx, id)
	if err != nil {
		return models.Problem{}, err
	}

	s.mu.Lock()
	s.problems.upsert(p)
	s.mu.Unlock()

	s.emit(Event{Kind: KindProblem, Op: OpUpdate, ID: p.ID})
	return p, nil
}

func (s *Store) CreateProblem(ctx context.Context, draft models.ProblemDraft) (models.Problem, error) {
	const op = "store.create_problem"
	if err := draft.Validate(); err != nil {
		return models.Problem{}, errs.Validation(op, err)
	}
	if _, err := s.requireSession(op); err != nil {
		return models.Problem{}, err
	}

	p, err := s.remote.CreateProblem(ctx, draft)
	if err != nil {
		return models.Problem{}, err
	}

	s.mu.Lock()
	s.problems.upsert(p)
	s.mu.Unlock()

	s.emit(Event{Kind: KindProblem, Op: OpCreate, ID: p.ID})
	return p, nil
}

func (s *Store) UpdateProblem(ctx context.Context, id string, draft models.ProblemDraft) (models.Problem, error) {
	const op = "store.update_problem"
	if err := draft.Validate(); err != nil {
		return models.Problem{}, errs.Validation(op, err)
	}
	cached, ok := s.GetProblem(id)
	if err := s.authorize(op, KindProblem, id, cached, ok); err != nil {
		return models.Problem{}, err
	}

	p, err := s.remote.UpdateProblem(ctx, id, draft)
	if err != nil {
		return models.Problem{}, err
	}

	s.mu.Lock()
	s.problems.upsert(p)
	s.mu.Unlock()

	s.emit(Event{Kind: KindProblem, Op: OpUpdate, ID: p.ID})
	return p, nil
}

// RemoveProblem deletes a problem on the server, then drops it together with
// its cached solutions and their comments.
func (s *Store) RemoveProblem(ctx context.Context, id string) error {
	const op = "store.remove_problem"
	cached, ok := s.GetProblem(id)
	if err := s.authorize(op, KindProblem, id, cached, ok); err != nil {
		return err
	}

	if err := s.remote.DeleteProblem(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.problems.remove(id)
	for _, solutionID := range s.solutions.dropScope(id) {
		s.comments.dropScope(solutionID)
	}
	s.mu.Unlock()

	s.emit(Event{Kind: KindProblem, Op: OpRemove, ID: id})
	return nil
}
