package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type VoteOutcome string

const (
	VoteCast      VoteOutcome = "cast"
	VoteRetracted VoteOutcome = "retracted"
	VoteSwitched  VoteOutcome = "switched"
)

type VoteRepository interface {
	// ToggleVote applies voteType for the user: a first vote is cast, the
	// same type again retracts it, the other type replaces it.
	ToggleVote(ctx context.Context, userID, solutionID int64, voteType string) (VoteOutcome, error)
}

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) ToggleVote(ctx context.Context, userID, solutionID int64, voteType string) (VoteOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.GetContext(ctx, &current,
		tx.Rebind(`SELECT vote_type FROM votes WHERE user_id = ? AND solution_id = ?`), userID, solutionID)

	var outcome VoteOutcome
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO votes (user_id, solution_id, vote_type) VALUES (?, ?, ?)`), userID, solutionID, voteType)
		outcome = VoteCast
	case err != nil:
		return "", fmt.Errorf("failed to read vote: %w", err)
	case current == voteType:
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM votes WHERE user_id = ? AND solution_id = ?`), userID, solutionID)
		outcome = VoteRetracted
	default:
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`UPDATE votes SET vote_type = ? WHERE user_id = ? AND solution_id = ?`), voteType, userID, solutionID)
		outcome = VoteSwitched
	}
	if err != nil {
		return "", fmt.Errorf("failed to apply vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit vote: %w", err)
	}
	return outcome, nil
}
