package repository

import (
	"context"
	"errors"
	"testing"

	"blog-backend/internal/domains/taxonomy/model"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, slug FROM categories ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug"}).
			AddRow("c1", "Go", "go").
			AddRow("c2", "Rust", "rust"))

	repo := NewPostgresRepository(mock)
	got, err := repo.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Term{
		{ID: "c1", Name: "Go", Slug: "go"},
		{ID: "c2", Name: "Rust", Slug: "rust"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTags_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, slug FROM tags ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug"}))

	got, err := NewPostgresRepository(mock).ListTags(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestListTags_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, slug FROM tags`).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresRepository(mock).ListTags(context.Background())
	assert.ErrorContains(t, err, "failed to list tags")
}
