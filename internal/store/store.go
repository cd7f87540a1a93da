// Package store is the client-side cache of problems, solutions and comments.
//
// Every refresh is authoritative for its scope: the cached entries of that
// scope are replaced wholesale by the server's answer, never merged. A failed
// call leaves the cache as it was. Ownership of updates and removals is
// checked against the session before any request is made.
package store

import (
	"context"
	"fmt"
	"sync"

	"crowdfix/internal/errs"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"

	"go.uber.org/zap"
)

type Kind string

const (
	KindProblem  Kind = "problem"
	KindSolution Kind = "solution"
	KindComment  Kind = "comment"
)

type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpRemove  Op = "remove"
)

// Event describes one cache mutation. ID is empty for refreshes.
type Event struct {
	Kind  Kind
	Op    Op
	ID    string
	Scope string
}

// Remote is the part of the gateway the store depends on.
type Remote interface {
	ListProblems(ctx context.Context) ([]models.Problem, error)
	GetProblem(ctx context.Context, id string) (models.Problem, error)
	CreateProblem(ctx context.Context, draft models.ProblemDraft) (models.Problem, error)
	UpdateProblem(ctx context.Context, id string, draft models.ProblemDraft) (models.Problem, error)
	DeleteProblem(ctx context.Context, id string) error

	ListSolutions(ctx context.Context, problemID string) ([]models.Solution, error)
	CreateSolution(ctx context.Context, problemID, username string, draft models.SolutionDraft) (models.Solution, error)
	UpdateSolutionDescription(ctx context.Context, id, problemID string, draft models.SolutionDraft) (models.Solution, error)
	DeleteSolution(ctx context.Context, id string) error

	ListComments(ctx context.Context, solutionID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, solutionID string, draft models.CommentDraft) (models.Comment, error)
	UpdateComment(ctx context.Context, id, solutionID string, draft models.CommentDraft) (models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// Identity reports who is signed in. session.Context satisfies it.
type Identity interface {
	Username() string
}

type Store struct {
	remote Remote
	who    Identity

	mu        sync.RWMutex
	problems  *collection[models.Problem]
	solutions *collection[models.Solution]
	comments  *collection[models.Comment]

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func New(remote Remote, who Identity) *Store {
	return &Store{
		remote:    remote,
		who:       who,
		problems:  newCollection[models.Problem](),
		solutions: newCollection[models.Solution](),
		comments:  newCollection[models.Comment](),
		subs:      make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every cache mutation. Callbacks run on the
// goroutine that made the change, after the cache lock is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) emit(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Refresh dispatches to the typed refresh for kind. scope is ignored for
// problems.
func (s *Store) Refresh(ctx context.Context, kind Kind, scope string) error {
	switch kind {
	case KindProblem:
		return s.RefreshProblems(ctx)
	case KindSolution:
		return s.RefreshSolutions(ctx, scope)
	case KindComment:
		return s.RefreshComments(ctx, scope)
	}
	return errs.Validation("store.refresh", fmt.Errorf("unknown kind %q", kind))
}

func (s *Store) requireSession(op string) (string, error) {
	user := s.who.Username()
	if user == "" {
		return "", errs.Authorization(op, "no active session")
	}
	return user, nil
}

// authorize checks that the signed-in user owns a cached entity.
func (s *Store) authorize(op string, kind Kind, id string, e Entity, found bool) error {
	if !found {
		return errs.Validation(op, fmt.Errorf("%s %s is not loaded", kind, id))
	}
	user, err := s.requireSession(op)
	if err != nil {
		return err
	}
	if e.Owner() != user {
		logger.Log.Info("Rejected change by non-owner",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.String("username", user))
		return errs.Authorization(op, "%s %s belongs to %q", kind, id, e.Owner())
	}
	return nil
}

func logRefreshFailure(kind Kind, scope string, err error) {
	logger.Log.Warn("Refresh failed, keeping cached data",
		zap.String("kind", string(kind)),
		zap.String("scope", scope),
		zap.Error(err))
}

// List returns the cached entities of kind in insertion order, with orphaned
// solutions hidden. It never fetches.
func (s *Store) List(kind Kind) []Entity {
	var out []Entity
	switch kind {
	case KindProblem:
		for _, p := range s.Problems() {
			out = append(out, p)
		}
	case KindSolution:
		for _, sol := range s.Solutions() {
			out = append(out, sol)
		}
	case KindComment:
		for _, c := range s.Comments() {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Get(kind Kind, id string) (Entity, bool) {
	var (
		e  Entity
		ok bool
	)
	switch kind {
	case KindProblem:
		e, ok = s.GetProblem(id)
	case KindSolution:
		e, ok = s.GetSolution(id)
	case KindComment:
		e, ok = s.GetComment(id)
	}
	if !ok {
		return nil, false
	}
	return e, true
}
