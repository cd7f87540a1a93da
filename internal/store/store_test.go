package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"crowdfix/internal/errs"
	"crowdfix/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user string

func (u user) Username() string { return string(u) }

// fakeRemote serves canned data and counts every call it receives.
type fakeRemote struct {
	mu    sync.Mutex
	calls int
	err   error

	problems  []models.Problem
	solutions map[string][]models.Solution
	comments  map[string][]models.Comment
	nextID    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		solutions: map[string][]models.Solution{},
		comments:  map[string][]models.Comment{},
		nextID:    100,
	}
}

func (f *fakeRemote) call() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) id() string {
	f.nextID++
	return fmt.Sprint(f.nextID)
}

func (f *fakeRemote) ListProblems(ctx context.Context) ([]models.Problem, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return append([]models.Problem(nil), f.problems...), nil
}

func (f *fakeRemote) GetProblem(ctx context.Context, id string) (models.Problem, error) {
	if err := f.call(); err != nil {
		return models.Problem{}, err
	}
	for _, p := range f.problems {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Problem{}, errs.HTTP("problems.get", 404, "not found")
}

func (f *fakeRemote) CreateProblem(ctx context.Context, d models.ProblemDraft) (models.Problem, error) {
	if err := f.call(); err != nil {
		return models.Problem{}, err
	}
	return models.Problem{ID: f.id(), Title: d.Title, Description: d.Description, OwnerUsername: "alice"}, nil
}

func (f *fakeRemote) UpdateProblem(ctx context.Context, id string, d models.ProblemDraft) (models.Problem, error) {
	if err := f.call(); err != nil {
		return models.Problem{}, err
	}
	return models.Problem{ID: id, Title: d.Title, Description: d.Description, OwnerUsername: "alice"}, nil
}

func (f *fakeRemote) DeleteProblem(ctx context.Context, id string) error { return f.call() }

func (f *fakeRemote) ListSolutions(ctx context.Context, problemID string) ([]models.Solution, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return append([]models.Solution(nil), f.solutions[problemID]...), nil
}

func (f *fakeRemote) CreateSolution(ctx context.Context, problemID, username string, d models.SolutionDraft) (models.Solution, error) {
	if err := f.call(); err != nil {
		return models.Solution{}, err
	}
	return models.Solution{ID: f.id(), ProblemID: problemID, Description: d.Description, AuthorUsername: username, Status: models.StatusPending}, nil
}

func (f *fakeRemote) UpdateSolutionDescription(ctx context.Context, id, problemID string, d models.SolutionDraft) (models.Solution, error) {
	if err := f.call(); err != nil {
		return models.Solution{}, err
	}
	return models.Solution{ID: id, ProblemID: problemID, Description: d.Description, AuthorUsername: "alice", Status: models.StatusPending}, nil
}

func (f *fakeRemote) DeleteSolution(ctx context.Context, id string) error { return f.call() }

func (f *fakeRemote) ListComments(ctx context.Context, solutionID string) ([]models.Comment, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return append([]models.Comment(nil), f.comments[solutionID]...), nil
}

func (f *fakeRemote) CreateComment(ctx context.Context, solutionID string, d models.CommentDraft) (models.Comment, error) {
	if err := f.call(); err != nil {
		return models.Comment{}, err
	}
	return models.Comment{ID: f.id(), SolutionID: solutionID, Content: d.Content, AuthorUsername: "alice"}, nil
}

func (f *fakeRemote) UpdateComment(ctx context.Context, id, solutionID string, d models.CommentDraft) (models.Comment, error) {
	if err := f.call(); err != nil {
		return models.Comment{}, err
	}
	return models.Comment{ID: id, SolutionID: solutionID, Content: d.Content, AuthorUsername: "alice"}, nil
}

func (f *fakeRemote) DeleteComment(ctx context.Context, id string) error { return f.call() }

func seeded() *fakeRemote {
	f := newFakeRemote()
	f.problems = []models.Problem{
		{ID: "1", Title: "Leaky faucet", Description: "drips", OwnerUsername: "alice"},
		{ID: "2", Title: "Squeaky door", Description: "hinge", OwnerUsername: "bob"},
	}
	f.solutions["1"] = []models.Solution{
		{ID: "10", ProblemID: "1", Description: "use a washer", AuthorUsername: "bob", Status: models.StatusPending, UpvoteCount: 3},
		{ID: "11", ProblemID: "1", Description: "call a plumber", AuthorUsername: "alice", Status: models.StatusPending},
	}
	f.comments["10"] = []models.Comment{
		{ID: "20", SolutionID: "10", Content: "worked for me", AuthorUsername: "carol"},
	}
	return f
}

func TestRefresh_IsAuthoritative(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user("alice"))

	require.NoError(t, s.RefreshProblems(ctx))
	require.NoError(t, s.RefreshSolutions(ctx, "1"))
	assert.Len(t, s.SolutionsOf("1"), 2)

	remote.solutions["1"] = remote.solutions["1"][1:]
	remote.solutions["1"][0].Description = "call a plumber today"
	require.NoError(t, s.RefreshSolutions(ctx, "1"))

	got := s.SolutionsOf("1")
	require.Len(t, got, 1)
	assert.Equal(t, "call a plumber today", got[0].Description)
	_, ok := s.GetSolution("10")
	assert.False(t, ok, "entries missing from the refresh are dropped")
}

func TestRefresh_FailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user("alice"))
	require.NoError(t, s.RefreshProblems(ctx))
	require.NoError(t, s.RefreshSolutions(ctx, "1"))

	beforeProblems := s.Problems()
	beforeSolutions := s.Solutions()

	for _, failure := range []error{
		errs.Network("problems.list", fmt.Errorf("connection refused")),
		errs.HTTP("problems.list", 401, ""),
		errs.HTTP("problems.list", 500, "boom"),
		errs.Decode("problems.list", fmt.Errorf("bad json")),
	} {
		remote.err = failure
		err := s.RefreshProblems(ctx)
		assert.ErrorIs(t, err, failure)
		err = s.RefreshSolutions(ctx, "1")
		assert.Error(t, err)

		assert.Equal(t, beforeProblems, s.Problems())
		assert.Equal(t, beforeSolutions, s.Solutions())
	}
}

func TestList_PreservesServerOrder(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	remote.problems = []models.Problem{
		{ID: "9", Title: "c", Description: "c"},
		{ID: "3", Title: "a", Description: "a"},
		{ID: "5", Title: "b", Description: "b"},
	}
	s := New(remote, user("alice"))
	require.NoError(t, s.RefreshProblems(ctx))

	var ids []string
	for _, e := range s.List(KindProblem) {
		ids = append(ids, e.EntityID())
	}
	assert.Equal(t, []string{"9", "3", "5"}, ids)
}

func TestOrphanedSolutionsHidden(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user("alice"))

	require.NoError(t, s.RefreshSolutions(ctx, "1"))
	assert.Empty(t, s.SolutionsOf("1"))
	assert.Empty(t, s.Solutions())
	assert.Empty(t, s.List(KindSolution))

	_, ok := s.GetSolution("10")
	assert.True(t, ok, "orphans stay addressable by id")

	require.NoError(t, s.RefreshProblems(ctx))
	assert.Len(t, s.SolutionsOf("1"), 2)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts canonical entity", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("alice"))

		var events []Event
		s.Subscribe(func(ev Event) { events = append(events, ev) })

		p, err := s.CreateProblem(ctx, models.ProblemDraft{Title: "Leaky faucet", Description: "drips at night"})
		require.NoError(t, err)
		assert.Equal(t, "101", p.ID)

		cached, ok := s.GetProblem(p.ID)
		require.True(t, ok)
		assert.Equal(t, p, cached)
		assert.Equal(t, []Event{{Kind: KindProblem, Op: OpCreate, ID: "101"}}, events)
	})

	t.Run("blank draft never reaches the server", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("alice"))

		_, err := s.CreateProblem(ctx, models.ProblemDraft{Title: "", Description: "x"})
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = s.CreateSolution(ctx, "1", models.SolutionDraft{Description: "  "})
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = s.CreateComment(ctx, "10", models.CommentDraft{})
		assert.ErrorIs(t, err, errs.ErrValidation)

		assert.Zero(t, remote.Calls())
		assert.Empty(t, s.Problems())
	})

	t.Run("requires a session", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user(""))

		_, err := s.CreateProblem(ctx, models.ProblemDraft{Title: "t", Description: "d"})
		assert.ErrorIs(t, err, errs.ErrAuthorization)
		assert.Zero(t, remote.Calls())
	})

	t.Run("server rejection leaves cache", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("alice"))
		remote.err = errs.HTTP("problems.create", 400, "bad")

		_, err := s.CreateProblem(ctx, models.ProblemDraft{Title: "t", Description: "d"})
		assert.ErrorIs(t, err, errs.ErrRemote)
		assert.Empty(t, s.Problems())
	})

	t.Run("solution carries session author", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("bob"))
		require.NoError(t, s.RefreshProblems(ctx))

		sol, err := s.CreateSolution(ctx, "1", models.SolutionDraft{Description: "use a washer"})
		require.NoError(t, err)
		assert.Equal(t, "bob", sol.AuthorUsername)
		assert.Equal(t, models.StatusPending, sol.Status)
		assert.Contains(t, s.SolutionsOf("1"), sol)
	})
}

func TestOwnership_RejectedWithoutNetworkCall(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user("mallory"))
	require.NoError(t, s.RefreshProblems(ctx))
	require.NoError(t, s.RefreshSolutions(ctx, "1"))
	require.NoError(t, s.RefreshComments(ctx, "10"))
	before := remote.Calls()

	_, err := s.UpdateProblem(ctx, "1", models.ProblemDraft{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, errs.ErrAuthorization)
	assert.ErrorIs(t, s.RemoveProblem(ctx, "1"), errs.ErrAuthorization)

	_, err = s.UpdateSolution(ctx, "10", models.SolutionDraft{Description: "x"})
	assert.ErrorIs(t, err, errs.ErrAuthorization)
	assert.ErrorIs(t, s.RemoveSolution(ctx, "10"), errs.ErrAuthorization)

	_, err = s.UpdateComment(ctx, "20", models.CommentDraft{Content: "x"})
	assert.ErrorIs(t, err, errs.ErrAuthorization)
	assert.ErrorIs(t, s.RemoveComment(ctx, "20"), errs.ErrAuthorization)

	assert.Equal(t, before, remote.Calls())
	p, _ := s.GetProblem("1")
	assert.Equal(t, "Leaky faucet", p.Title)
}

func TestOwnership_SignedOut(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user(""))
	require.NoError(t, s.RefreshProblems(ctx))

	_, err := s.UpdateProblem(ctx, "1", models.ProblemDraft{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, errs.ErrAuthorization)
}

func TestUpdate_UncachedIsValidationError(t *testing.T) {
	remote := seeded()
	s := New(remote, user("alice"))

	_, err := s.UpdateProblem(context.Background(), "404", models.ProblemDraft{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Zero(t, remote.Calls())
}

func TestUpdate_ReplacesWithServerCopy(t *testing.T) {
	ctx := context.Background()
	remote := seeded()
	s := New(remote, user("alice"))
	require.NoError(t, s.RefreshProblems(ctx))
	require.NoError(t, s.RefreshSolutions(ctx, "1"))

	p, err := s.UpdateProblem(ctx, "1", models.ProblemDraft{Title: "Leaky tap", Description: "drips"})
	require.NoError(t, err)
	cached, _ := s.GetProblem("1")
	assert.Equal(t, p, cached)
	assert.Equal(t, "1", s.Problems()[0].ID, "position is kept")

	sol, err := s.UpdateSolution(ctx, "11", models.SolutionDraft{Description: "call two plumbers"})
	require.NoError(t, err)
	assert.Equal(t, "1", sol.ProblemID)
	got, _ := s.GetSolution("11")
	assert.Equal(t, "call two plumbers", got.Description)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("after confirmation", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("alice"))
		require.NoError(t, s.RefreshProblems(ctx))
		require.NoError(t, s.RefreshSolutions(ctx, "1"))

		require.NoError(t, s.RemoveSolution(ctx, "11"))
		_, ok := s.GetSolution("11")
		assert.False(t, ok)

		require.NoError(t, s.RemoveProblem(ctx, "1"))
		_, ok = s.GetProblem("1")
		assert.False(t, ok)
		_, ok = s.GetSolution("10")
		assert.False(t, ok, "solutions go with their problem")
	})

	t.Run("kept when the server refuses", func(t *testing.T) {
		remote := seeded()
		s := New(remote, user("alice"))
		require.NoError(t, s.RefreshProblems(ctx))
		remote.err = errs.Network("problems.delete", fmt.Errorf("timeout"))

		assert.ErrorIs(t, s.RemoveProblem(ctx, "1"), errs.ErrNetwork)
		_, ok := s.GetProblem("1")
		assert.True(t, ok)
	})
}

func TestFetchProblem_Upserts(t *testing.T) {
	remote := seeded()
	s := New(remote, user("alice"))

	p, err := s.FetchProblem(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Squeaky door", p.Title)
	assert.Len(t, s.Problems(), 1)

	_, err = s.FetchProblem(context.Background(), "77")
	assert.ErrorIs(t, err, errs.ErrRemote)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s := New(seeded(), user("alice"))

	var n int
	unsubscribe := s.Subscribe(func(Event) { n++ })
	require.NoError(t, s.RefreshProblems(ctx))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.RefreshProblems(ctx))

	assert.Equal(t, 1, n)
}

func TestRefresh_Dispatch(t *testing.T) {
	ctx := context.Background()
	s := New(seeded(), user("alice"))

	require.NoError(t, s.Refresh(ctx, KindProblem, ""))
	require.NoError(t, s.Refresh(ctx, KindSolution, "1"))
	require.NoError(t, s.Refresh(ctx, KindComment, "10"))
	assert.Len(t, s.CommentsOf("10"), 1)

	e, ok := s.Get(KindComment, "20")
	require.True(t, ok)
	assert.Equal(t, "carol", e.Owner())

	assert.ErrorIs(t, s.Refresh(ctx, Kind("vote"), ""), errs.ErrValidation)
}

func TestGet_MissReturnsNil(t *testing.T) {
	s := New(seeded(), user("alice"))
	require.NoError(t, s.RefreshProblems(context.Background()))

	for _, kind := range []Kind{KindProblem, KindSolution, KindComment, Kind("vote")} {
		e, ok := s.Get(kind, "404")
		assert.False(t, ok, kind)
		assert.Nil(t, e, kind)
	}

	e, ok := s.Get(KindProblem, "1")
	require.True(t, ok)
	assert.Equal(t, "alice", e.Owner())
}

func TestConcurrentRefreshes(t *testing.T) {
	ctx := context.Background()
	s := New(seeded(), user("alice"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RefreshProblems(ctx))
			assert.NoError(t, s.RefreshSolutions(ctx, "1"))
		}()
	}
	wg.Wait()

	assert.Len(t, s.Problems(), 2)
	assert.Len(t, s.SolutionsOf("1"), 2)
}
