// Package board wires the sync layer into a single client: session, gateway,
// entity cache, votes, status workflow and notifications. It also owns the
// side effects that turn domain events into notifications.
package board

import (
	"context"
	"fmt"

	"crowdfix/configs"
	"crowdfix/internal/errs"
	"crowdfix/internal/gateway"
	"crowdfix/internal/kvstore"
	"crowdfix/internal/logger"
	"crowdfix/internal/models"
	"crowdfix/internal/notifications"
	"crowdfix/internal/session"
	"crowdfix/internal/store"
	"crowdfix/internal/votes"
	"crowdfix/internal/workerpool"
	"crowdfix/internal/workflow"

	"go.uber.org/zap"
)

const MessageProblemPosted = "Your problem was successfully posted!"

type Board struct {
	kv   kvstore.Store
	pool *workerpool.Pool

	Session       *session.Context
	Gateway       *gateway.Client
	Store         *store.Store
	Votes         *votes.Engine
	Workflow      *workflow.Workflow
	Notifications *notifications.Center
}

// Open builds the local store selected by cfg and a Board on top of it. The
// Board owns the store and closes it in Close.
func Open(ctx context.Context, cfg *configs.Config, opts ...gateway.Option) (*Board, error) {
	kv, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	b, err := New(ctx, kv, cfg, opts...)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return b, nil
}

func New(ctx context.Context, kv kvstore.Store, cfg *configs.Config, opts ...gateway.Option) (*Board, error) {
	sess, err := session.Load(ctx, kv)
	if err != nil {
		return nil, err
	}

	gwOpts := []gateway.Option{gateway.WithRateLimit(cfg.APIRateLimit)}
	if cfg.APITimeout > 0 {
		gwOpts = append(gwOpts, gateway.WithTimeout(cfg.APITimeout))
	}
	gw := gateway.New(cfg.APIBaseURL, sess, append(gwOpts, opts...)...)

	var centerOpts []notifications.Option
	if !cfg.SeedNotifications {
		centerOpts = append(centerOpts, notifications.WithoutSeed())
	}
	center := notifications.NewCenter(kv, centerOpts...)
	if err := center.Load(ctx); err != nil {
		return nil, err
	}

	st := store.New(gw, sess)

	return &Board{
		kv:            kv,
		pool:          workerpool.NewPool(cfg.NumberOfWorkers),
		Session:       sess,
		Gateway:       gw,
		Store:         st,
		Votes:         votes.NewEngine(gw, st),
		Workflow:      workflow.New(gw, st),
		Notifications: center,
	}, nil
}

func (b *Board) Close() error {
	return b.kv.Close()
}

func (b *Board) Login(ctx context.Context, username, password string) error {
	req := models.LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return errs.Validation("board.login", err)
	}

	token, err := b.Gateway.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := b.Session.Begin(ctx, username, token); err != nil {
		return err
	}

	logger.Log.Info("Signed in", zap.String("username", username))
	return nil
}

// Logout forgets the identity. Dark mode and the notification log are kept.
func (b *Board) Logout(ctx context.Context) error {
	user := b.Session.Username()
	if err := b.Session.Clear(ctx); err != nil {
		return err
	}
	logger.Log.Info("Signed out", zap.String("username", user))
	return nil
}

func (b *Board) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return errs.Validation("board.register", err)
	}
	return b.Gateway.Register(ctx, req)
}

func (b *Board) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return errs.Validation("board.forgot_password", err)
	}
	return b.Gateway.ForgotPassword(ctx, req)
}

func (b *Board) ActiveUsers(ctx context.Context) ([]models.ActiveUser, error) {
	return b.Gateway.ActiveUsers(ctx)
}

func (b *Board) ToggleDarkMode(ctx context.Context) (bool, error) {
	return b.Session.ToggleDarkMode(ctx)
}

// PostProblem creates a problem and records the confirmation notification.
func (b *Board) PostProblem(ctx context.Context, draft models.ProblemDraft) (models.Problem, error) {
	p, err := b.Store.CreateProblem(ctx, draft)
	if err != nil {
		return models.Problem{}, err
	}
	b.notify(ctx, MessageProblemPosted)
	return p, nil
}

// SetStatus transitions a solution and records the change as a notification.
func (b *Board) SetStatus(ctx context.Context, solutionID string, status models.Status) (models.Solution, error) {
	sol, err := b.Workflow.Transition(ctx, solutionID, status)
	if err != nil {
		return models.Solution{}, err
	}
	b.notify(ctx, fmt.Sprintf("Solution %s marked as %s", sol.ID, sol.Status))
	return sol, nil
}

func (b *Board) Vote(ctx context.Context, solutionID string, dir models.Direction) (models.Solution, error) {
	return b.Votes.Vote(ctx, solutionID, dir)
}

// WarmUp refreshes the problem list, then every problem's solutions in
// parallel. Failed scopes keep their previous contents; their errors are
// combined in the result.
func (b *Board) WarmUp(ctx context.Context) error {
	if err := b.Store.RefreshProblems(ctx); err != nil {
		return err
	}

	problems := b.Store.Problems()
	jobs := make([]workerpool.Job, 0, len(problems))
	for _, p := range problems {
		problemID := p.ID
		jobs = append(jobs, workerpool.Job{
			Name: "solutions/" + problemID,
			Run: func(ctx context.Context) error {
				return b.Store.RefreshSolutions(ctx, problemID)
			},
		})
	}

	err := b.pool.Run(ctx, jobs)
	logger.Log.Info("Warm-up finished",
		zap.Int("problems", len(problems)),
		zap.Bool("complete", err == nil))
	return err
}

// notify failures do not undo the operation that triggered them.
func (b *Board) notify(ctx context.Context, message string) {
	if _, err := b.Notifications.Record(ctx, message); err != nil {
		logger.Log.Error("Failed to record notification",
			zap.String("message", message),
			zap.Error(err))
	}
}
