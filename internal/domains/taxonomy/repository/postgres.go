package repository

import (
	"context"
	"fmt"

	"blog-backend/internal/domains/taxonomy/model"
	"blog-backend/pkg/database"
)

// Repository reads the category and tag collections.
// Both are managed by a separate service.
type Repository interface {
	ListCategories(ctx context.Context) ([]model.Term, error)
	ListTags(ctx context.Context) ([]model.Term, error)
}

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]model.Term, error) {
	return r.list(ctx, "categories")
}

func (r *postgresRepository) ListTags(ctx context.Context) ([]model.Term, error) {
	return r.list(ctx, "tags")
}

// table is one of the two constants above, never user input
func (r *postgresRepository) list(ctx context.Context, table string) ([]model.Term, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s ORDER BY name`, table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	terms := []model.Term{}
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	return terms, nil
}
