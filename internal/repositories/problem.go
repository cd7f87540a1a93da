package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crowdfix/internal/models"

	"github.com/jmoiron/sqlx"
)

type ProblemRepository interface {
	GetProblems(ctx context.Context) ([]models.ProblemRecord, error)
	GetProblemByID(ctx context.Context, problemID int64) (*models.ProblemRecord, error)
	CreateProblem(ctx context.Context, userID int64, draft models.ProblemDraft) (int64, error)
	UpdateProblem(ctx context.Context, problemID int64, draft models.ProblemDraft) error
	// DeleteProblem also removes the problem's solutions with their votes and comments.
	DeleteProblem(ctx context.Context, problemID int64) error
}

type problemRepository struct {
	db *sqlx.DB
}

func NewProblemRepository(db *sqlx.DB) ProblemRepository {
	return &problemRepository{db: db}
}

const problemSelect = `SELECT p.id, p.user_id, u.username, p.title, p.description
	FROM problems p JOIN users u ON u.id = p.user_id`

func (r *problemRepository) GetProblems(ctx context.Context) ([]models.ProblemRecord, error) {
	problems := []models.ProblemRecord{}
	if err := r.db.SelectContext(ctx, &problems, problemSelect+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("failed to get problems: %w", err)
	}
	return problems, nil
}

func (r *problemRepository) GetProblemByID(ctx context.Context, problemID int64) (*models.ProblemRecord, error) {
	var problem models.ProblemRecord
	query := r.db.Rebind(problemSelect + ` WHERE p.id = ?`)
	if err := r.db.GetContext(ctx, &problem, query, problemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("problem %d: %w", problemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	return &problem, nil
}

func (r *problemRepository) CreateProblem(ctx context.Context, userID int64, draft models.ProblemDraft) (int64, error) {
	id, err := insert(ctx, r.db,
		`INSERT INTO problems (user_id, title, description) VALUES (?, ?, ?)`,
		userID, draft.Title, draft.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to create problem: %w", err)
	}
	return id, nil
}

func (r *problemRepository) UpdateProblem(ctx context.Context, problemID int64, draft models.ProblemDraft) error {
	query := r.db.Rebind(`UPDATE problems SET title = ?, description = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, draft.Title, draft.Description, problemID); err != nil {
		return fmt.Errorf("failed to update problem: %w", err)
	}
	return nil
}

func (r *problemRepository) DeleteProblem(ctx context.Context, problemID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM comments WHERE solution_id IN (SELECT id FROM solutions WHERE problem_id = ?)`,
		`DELETE FROM votes WHERE solution_id IN (SELECT id FROM solutions WHERE problem_id = ?)`,
		`DELETE FROM solutions WHERE problem_id = ?`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, tx.Rebind(s), problemID); err != nil {
			return fmt.Errorf("failed to delete problem children: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM problems WHERE id = ?`), problemID)
	if err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}
	if err := affectedOne(result, "problem", problemID); err != nil {
		return err
	}
	return tx.Commit()
}
