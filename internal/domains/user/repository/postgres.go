package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-backend/internal/domains/user/model"
	"blog-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

// Repository is the read-only author lookup
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

// FindByUsername matches usernames case-insensitively
func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `
		SELECT id, name, username, profile, role
		FROM users
		WHERE LOWER(username) = $1
	`

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(username))).
		Scan(&u.ID, &u.Name, &u.Username, &u.Profile, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	return u, nil
}
