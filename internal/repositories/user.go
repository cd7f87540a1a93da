package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crowdfix/internal/models"
	"crowdfix/internal/utils"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, password string) error
	TouchLogin(ctx context.Context, userID int64, at time.Time) error
	// ActiveSince lists users who logged in at or after since, by username.
	ActiveSince(ctx context.Context, since time.Time) ([]models.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, security_question, security_answer_hash, last_login_at`

func (r *userRepository) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	var taken int
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`)
	if err := r.db.GetContext(ctx, &taken, query, req.Username, strings.ToLower(req.Email)); err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("user %s: %w", req.Username, ErrDuplicate)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	var answerHash string
	if req.SecurityAnswer != "" {
		if answerHash, err = utils.HashPassword(normalizeAnswer(req.SecurityAnswer)); err != nil {
			return nil, fmt.Errorf("failed to hash security answer: %w", err)
		}
	}

	role := req.Role
	if role == "" {
		role = "USER"
	}

	user := &models.User{
		Username:           req.Username,
		Email:              strings.ToLower(req.Email),
		PasswordHash:       hashedPassword,
		Role:               role,
		SecurityQuestion:   req.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	}
	user.ID, err = insert(ctx, r.db,
		`INSERT INTO users (username, email, password_hash, role, security_question, security_answer_hash) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.SecurityQuestion, user.SecurityAnswerHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(email))
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`)
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, password string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	query := r.db.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, hashedPassword, userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, userID int64, at time.Time) error {
	query := r.db.Rebind(`UPDATE users SET last_login_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, at.Unix(), userID); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *userRepository) ActiveSince(ctx context.Context, since time.Time) ([]models.User, error) {
	users := []models.User{}
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE last_login_at >= ? ORDER BY username`)
	if err := r.db.SelectContext(ctx, &users, query, since.Unix()); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

// CheckSecurityAnswer compares answers case- and whitespace-insensitively.
func CheckSecurityAnswer(user *models.User, answer string) bool {
	if user.SecurityAnswerHash == "" {
		return false
	}
	return utils.CheckPasswordHash(normalizeAnswer(answer), user.SecurityAnswerHash)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
