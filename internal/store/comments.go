package store

import (
	"context"

	"crowdfix/internal/errs"
	"crowdfix/internal/models"
)

func (s *Store) RefreshComments(ctx context.Context, solutionID string) error {
	comments, err := s.remote.ListComments(ctx, solutionID)
	if err != nil {
		logRefreshFailure(KindComment, solutionID, err)
		return err
	}

	s.mu.Lock()
	s.comments.replaceScope(solutionID, comments)
	s.mu.Unlock()

	s.emit(Event{Kind: KindComment, Op: OpRefresh, Scope: solutionID})
	return nil
}

func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comments.list()
}

func (s *Store) CommentsOf(solutionID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comments.listScope(solutionID)
}

func (s *Store) GetComment(id string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comments.get(id)
}

func (s *Store) CreateComment(ctx context.Context, solutionID string, draft models.CommentDraft) (models.Comment, error) {
	const op = "store.create_comment"
	if err := draft.Validate(); err != nil {
		return models.Comment{}, errs.Validation(op, err)
	}
	if _, err := s.requireSession(op); err != nil {
		return models.Comment{}, err
	}

	c, err := s.remote.CreateComment(ctx, solutionID, draft)
	if err != nil {
		return models.Comment{}, err
	}

	s.mu.Lock()
	s.comments.upsert(c)
	s.mu.Unlock()

	s.emit(Event{Kind: KindComment, Op: OpCreate, ID: c.ID, Scope: c.SolutionID})
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, id string, draft models.CommentDraft) (models.Comment, error) {
	const op = "store.update_comment"
	if err := draft.Validate(); err != nil {
		return models.Comment{}, errs.Validation(op, err)
	}
	cached, ok := s.GetComment(id)
	if err := s.authorize(op, KindComment, id, cached, ok); err != nil {
		return models.Comment{}, err
	}

	c, err := s.remote.UpdateComment(ctx, id, cached.SolutionID, draft)
	if err != nil {
		return models.Comment{}, err
	}

	s.mu.Lock()
	s.comments.upsert(c)
	s.mu.Unlock()

	s.emit(Event{Kind: KindComment, Op: OpUpdate, ID: c.ID, Scope: c.SolutionID})
	return c, nil
}

func (s *Store) RemoveComment(ctx context.Context, id string) error {
	const op = "store.remove_comment"
	cached, ok := s.GetComment(id)
	if err := s.authorize(op, KindComment, id, cached, ok); err != nil {
		return err
	}

	if err := s.remote.DeleteComment(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.comments.remove(id)
	s.mu.Unlock()

	s.emit(Event{Kind: KindComment, Op: OpRemove, ID: id, Scope: cached.SolutionID})
	return nil
}
