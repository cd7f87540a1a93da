package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crowdfix/internal/models"

	"github.com/jmoiron/sqlx"
)

type SolutionRepository interface {
	GetSolutionsByProblem(ctx context.Context, problemID int64) ([]models.SolutionRecord, error)
	GetSolutionByID(ctx context.Context, solutionID int64) (*models.SolutionRecord, error)
	CreateSolution(ctx context.Context, problemID, userID int64, description string) (int64, error)
	UpdateDescription(ctx context.Context, solutionID int64, description string) error
	UpdateStatus(ctx context.Context, solutionID int64, status models.Status) error
	DeleteSolution(ctx context.Context, solutionID int64) error
}

type solutionRepository struct {
	db *sqlx.DB
}

func NewSolutionRepository(db *sqlx.DB) SolutionRepository {
	return &solutionRepository{db: db}
}

// counts are derived from the votes table so they cannot drift or go negative
const solutionSelect = `SELECT s.id, s.problem_id, s.user_id, u.username, s.description, s.status,
	(SELECT COUNT(*) FROM votes v WHERE v.solution_id = s.id AND v.vote_type = 'UPVOTE') AS upvote_count,
	(SELECT COUNT(*) FROM votes v WHERE v.solution_id = s.id AND v.vote_type = 'DOWNVOTE') AS downvote_count
	FROM solutions s JOIN users u ON u.id = s.user_id`

func (r *solutionRepository) GetSolutionsByProblem(ctx context.Context, problemID int64) ([]models.SolutionRecord, error) {
	solutions := []models.SolutionRecord{}
	query := r.db.Rebind(solutionSelect + ` WHERE s.problem_id = ? ORDER BY s.id`)
	if err := r.db.SelectContext(ctx, &solutions, query, problemID); err != nil {
		return nil, fmt.Errorf("failed to get solutions: %w", err)
	}
	return solutions, nil
}

func (r *solutionRepository) GetSolutionByID(ctx context.Context, solutionID int64) (*models.SolutionRecord, error) {
	var solution models.SolutionRecord
	query := r.db.Rebind(solutionSelect + ` WHERE s.id = ?`)
	if err := r.db.GetContext(ctx, &solution, query, solutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("solution %d: %w", solutionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return &solution, nil
}

func (r *solutionRepository) CreateSolution(ctx context.Context, problemID, userID int64, description string) (int64, error) {
	id, err := insert(ctx, r.db,
		`INSERT INTO solutions (problem_id, user_id, description, status) VALUES (?, ?, ?, ?)`,
		problemID, userID, description, models.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to create solution: %w", err)
	}
	return id, nil
}

func (r *solutionRepository) UpdateDescription(ctx context.Context, solutionID int64, description string) error {
	query := r.db.Rebind(`UPDATE solutions SET description = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, description, solutionID); err != nil {
		return fmt.Errorf("failed to update solution description: %w", err)
	}
	return nil
}

func (r *solutionRepository) UpdateStatus(ctx context.Context, solutionID int64, status models.Status) error {
	query := r.db.Rebind(`UPDATE solutions SET status = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, status, solutionID); err != nil {
		return fmt.Errorf("failed to update solution status: %w", err)
	}
	return nil
}

func (r *solutionRepository) DeleteSolution(ctx context.Context, solutionID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range []string{
		`DELETE FROM comments WHERE solution_id = ?`,
		`DELETE FROM votes WHERE solution_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(s), solutionID); err != nil {
			return fmt.Errorf("failed to delete solution children: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM solutions WHERE id = ?`), solutionID)
	if err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	if err := affectedOne(result, "solution", solutionID); err != nil {
		return err
	}
	return tx.Commit()
}
