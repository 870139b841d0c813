package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"blog-backend/internal/domains/post/model"
	taxonomy "blog-backend/internal/domains/taxonomy/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func samplePost() *model.Post {
	return &model.Post{
		ID:         "p1",
		Title:      "Hello World",
		Body:       "<p>body</p>",
		Slug:       "hello-world",
		Excerpt:    "body",
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories: taxonomy.FromIDs([]string{"c1"}),
		Tags:       taxonomy.FromIDs([]string{"t1", "t2"}),
		PostedBy:   &model.Author{ID: "u1"},
		Photo:      &model.Photo{Data: []byte{1, 2, 3}, ContentType: "image/png"},
	}
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestCreate_InsertsPostAndLinks(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blogs (")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_categories (post_id, category_id)")).
		WithArgs("p1", []string{"c1"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_tags (post_id, tag_id)")).
		WithArgs("p1", []string{"t1", "t2"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := NewPostgresRepository(mock, model.KindBlog).Create(context.Background(), samplePost())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WebStoryWithoutTaxonomy(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO web_stories (")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	post := samplePost()
	post.Categories, post.Tags = nil, nil

	err := NewPostgresRepository(mock, model.KindWebStory).Create(context.Background(), post)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateSlug(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blogs (")).
		WithArgs(anyArgs(11)...).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"blogs_slug_key\""})
	mock.ExpectRollback()

	err := NewPostgresRepository(mock, model.KindBlog).Create(context.Background(), samplePost())

	var storeErr *model.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "slug already exists", storeErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownCategory(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blogs (")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_categories")).
		WithArgs("p1", []string{"c1"}).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	err := NewPostgresRepository(mock, model.KindBlog).Create(context.Background(), samplePost())

	var storeErr *model.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "referenced category, tag or user does not exist", storeErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ReplacesCategoriesOnly(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET title = $2")).
		WithArgs(anyArgs(8)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blog_categories WHERE post_id = $1")).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_categories (post_id, category_id)")).
		WithArgs("p1", []string{"c9"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := NewPostgresRepository(mock, model.KindBlog).
		Update(context.Background(), samplePost(), model.PostPatch{CategoryIDs: []string{"c9"}})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_WritesPhoto(t *testing.T) {
	mock := newMock(t)
	photo := &model.Photo{Data: []byte{9}, ContentType: "image/jpeg"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE web_stories SET title = $2")).
		WithArgs(anyArgs(8)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE web_stories SET photo_data = $2, photo_content_type = $3 WHERE id = $1")).
		WithArgs("p1", []byte{9}, "image/jpeg").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := NewPostgresRepository(mock, model.KindWebStory).
		Update(context.Background(), samplePost(), model.PostPatch{Photo: photo})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE blogs SET")).
		WithArgs(anyArgs(8)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := NewPostgresRepository(mock, model.KindBlog).Update(context.Background(), samplePost(), model.PostPatch{})

	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM web_stories WHERE slug = $1")).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewPostgresRepository(mock, model.KindWebStory).Delete(context.Background(), "gone")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySlug_Populated(t *testing.T) {
	mock := newMock(t)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM blogs p JOIN users u ON u.id = p.posted_by WHERE p.slug = $1")).
		WithArgs("hello-world").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "body", "slug", "excerpt", "meta_title", "meta_description",
			"date", "created_at", "updated_at", "categories", "tags",
			"author_id", "author_name", "author_username", "author_profile",
		}).AddRow(
			"p1", "Hello World", "<p>hi</p>", "hello-world", "hi", "", "",
			date, created, created,
			[]byte(`[{"_id":"c1","name":"Go","slug":"go"}]`), []byte(`[]`),
			"u1", "Ann", "ann", "https://example.com/ann",
		))

	got, err := NewPostgresRepository(mock, model.KindBlog).FindBySlug(context.Background(), "hello-world")

	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, []taxonomy.Term{{ID: "c1", Name: "Go", Slug: "go"}}, got.Categories)
	assert.Equal(t, []taxonomy.Term{}, got.Tags)
	assert.Equal(t, &model.Author{ID: "u1", Name: "Ann", Username: "ann", Profile: "https://example.com/ann"}, got.PostedBy)
	require.NotNil(t, got.CreatedAt)
	assert.Equal(t, created, *got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySlug_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.slug = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewPostgresRepository(mock, model.KindBlog).FindBySlug(context.Background(), "missing")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFindPhoto(t *testing.T) {
	mock := newMock(t)
	query := regexp.QuoteMeta("SELECT photo_data, photo_content_type FROM blogs WHERE slug = $1")

	mock.ExpectQuery(query).WithArgs("with-photo").
		WillReturnRows(pgxmock.NewRows([]string{"photo_data", "photo_content_type"}).AddRow([]byte{1, 2}, "image/png"))
	mock.ExpectQuery(query).WithArgs("no-photo").
		WillReturnRows(pgxmock.NewRows([]string{"photo_data", "photo_content_type"}).AddRow([]byte(nil), ""))
	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock, model.KindBlog)

	photo, err := repo.FindPhoto(context.Background(), "with-photo")
	require.NoError(t, err)
	assert.Equal(t, &model.Photo{Data: []byte{1, 2}, ContentType: "image/png"}, photo)

	_, err = repo.FindPhoto(context.Background(), "no-photo")
	assert.ErrorIs(t, err, model.ErrPhotoNotFound)

	_, err = repo.FindPhoto(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrPhotoNotFound)
}

func TestListSitemap(t *testing.T) {
	mock := newMock(t)
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, slug, date FROM blogs ORDER BY date DESC")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "date"}).AddRow("p1", "a", date))

	got, err := NewPostgresRepository(mock, model.KindBlog).ListSitemap(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.SitemapEntry{{ID: "p1", Slug: "a", Date: date}}, got)
}

func TestListSlugs_EmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM web_stories")).
		WillReturnRows(pgxmock.NewRows([]string{"slug"}))

	got, err := NewPostgresRepository(mock, model.KindWebStory).ListSlugs(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListFeed_PassesLimit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1")).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "excerpt", "mdesc", "slug", "date", "body", "uid", "uname", "uusername",
		}).AddRow("p1", "T", "e", "d", "t", time.Now(), "b", "u1", "Ann", "ann"))

	got, err := NewPostgresRepository(mock, model.KindBlog).ListFeed(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ann", got[0].PostedBy.Username)
}

func TestListRelated(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock, model.KindBlog)

	got, err := repo.ListRelated(context.Background(), "p1", nil, 6)
	require.NoError(t, err)
	assert.Empty(t, got)

	mock.ExpectQuery(regexp.QuoteMeta("pc.category_id = ANY($2::text[])")).
		WithArgs("p1", []string{"c1"}, 6).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "slug", "excerpt", "date", "uid", "uname", "uusername", "uprofile",
		}).AddRow("p2", "Other", "other", "", time.Now(), "u1", "Ann", "ann", ""))

	got, err = repo.ListRelated(context.Background(), "p1", []string{"c1"}, 6)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_EscapesWildcards(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.title ILIKE $1 OR p.body ILIKE $1")).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "slug", "excerpt", "mtitle", "mdesc", "date", "categories", "tags",
		}).AddRow("p1", "50%_off sale", "sale", "", "", "", time.Now(), []byte(`[]`), []byte(`[{"_id":"t1","name":"Deals","slug":"deals"}]`)))

	got, err := NewPostgresRepository(mock, model.KindBlog).Search(context.Background(), "50%_off")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Deals", got[0].Tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAuthor_QueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.posted_by = $1")).
		WithArgs("u1").
		WillReturnError(errors.New("connection refused"))

	_, err := NewPostgresRepository(mock, model.KindBlog).ListByAuthor(context.Background(), "u1")

	var storeErr *model.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "failed to list posts by author", storeErr.Message)
}

func TestListWithTaxonomy_OrdersByDate(t *testing.T) {
	mock := newMock(t)
	older := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM web_stories p JOIN users u ON u.id = p.posted_by ORDER BY p.date DESC")).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "slug", "excerpt", "date", "created_at", "updated_at",
			"categories", "tags", "uid", "uname", "uusername", "uprofile",
		}).
			AddRow("p2", "Newer", "newer", "n", newer, created, created, []byte(`[]`), []byte(`[]`), "u1", "Ann", "ann", "").
			AddRow("p1", "Older", "older", "o", older, created.Add(time.Hour), created, []byte(`[]`), []byte(`[]`), "u1", "Ann", "ann", ""))

	got, err := NewPostgresRepository(mock, model.KindWebStory).ListWithTaxonomy(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, []taxonomy.Term{}, got[0].Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}
