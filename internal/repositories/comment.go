package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crowdfix/internal/models"

	"github.com/jmoiron/sqlx"
)

type CommentRepository interface {
	GetCommentsBySolution(ctx context.Context, solutionID int64) ([]models.CommentRecord, error)
	GetCommentByID(ctx context.Context, commentID int64) (*models.CommentRecord, error)
	CreateComment(ctx context.Context, solutionID, userID int64, content string) (int64, error)
	UpdateComment(ctx context.Context, commentID int64, content string) error
	DeleteComment(ctx context.Context, commentID int64) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentSelect = `SELECT c.id, c.solution_id, c.user_id, u.username, c.content
	FROM comments c JOIN users u ON u.id = c.user_id`

func (r *commentRepository) GetCommentsBySolution(ctx context.Context, solutionID int64) ([]models.CommentRecord, error) {
	comments := []models.CommentRecord{}
	query := r.db.Rebind(commentSelect + ` WHERE c.solution_id = ? ORDER BY c.id`)
	if err := r.db.SelectContext(ctx, &comments, query, solutionID); err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, commentID int64) (*models.CommentRecord, error) {
	var comment models.CommentRecord
	query := r.db.Rebind(commentSelect + ` WHERE c.id = ?`)
	if err := r.db.GetContext(ctx, &comment, query, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) CreateComment(ctx context.Context, solutionID, userID int64, content string) (int64, error) {
	id, err := insert(ctx, r.db,
		`INSERT INTO comments (solution_id, user_id, content) VALUES (?, ?, ?)`,
		solutionID, userID, content)
	if err != nil {
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}
	return id, nil
}

func (r *commentRepository) UpdateComment(ctx context.Context, commentID int64, content string) error {
	query := r.db.Rebind(`UPDATE comments SET content = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, content, commentID); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE id = ?`), commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return affectedOne(result, "comment", commentID)
}
