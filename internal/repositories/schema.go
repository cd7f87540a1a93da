package repositories

import (
	"context"
	"errors"
	"fmt"

	"crowdfix/internal/dbs"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Migrate creates the board tables for the connected dialect.
func Migrate(db *sqlx.DB) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	switch db.DriverName() {
	case "mysql":
		pk = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	case "postgres":
		pk = "BIGSERIAL PRIMARY KEY"
	}

	return dbs.Exec(db,
		`CREATE TABLE IF NOT EXISTS users (
			id `+pk+`,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'USER',
			security_question VARCHAR(255) NOT NULL DEFAULT '',
			security_answer_hash VARCHAR(255) NOT NULL DEFAULT '',
			last_login_at BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS problems (
			id `+pk+`,
			user_id BIGINT NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS solutions (
			id `+pk+`,
			problem_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'PENDING'
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			user_id BIGINT NOT NULL,
			solution_id BIGINT NOT NULL,
			vote_type VARCHAR(8) NOT NULL,
			PRIMARY KEY (user_id, solution_id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id `+pk+`,
			solution_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			content TEXT NOT NULL
		)`,
	)
}

// insert runs an INSERT and returns the generated id.
func insert(ctx context.Context, db sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if db.DriverName() == "postgres" {
		var id int64
		if err := sqlx.GetContext(ctx, db, &id, db.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

func affectedOne(result interface{ RowsAffected() (int64, error) }, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
