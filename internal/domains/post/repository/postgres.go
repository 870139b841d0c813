package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-backend/internal/domains/post/model"
	taxonomy "blog-backend/internal/domains/taxonomy/model"
	"blog-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Populated reference columns. {post_categories} and {post_tags} are
// replaced with the join tables of the repository's kind.
const (
	categoriesJSON = `COALESCE((
		SELECT json_agg(json_build_object('_id', c.id, 'name', c.name, 'slug', c.slug) ORDER BY c.name)
		FROM {post_categories} pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = p.id), '[]'::json)`

	tagsJSON = `COALESCE((
		SELECT json_agg(json_build_object('_id', t.id, 'name', t.name, 'slug', t.slug) ORDER BY t.name)
		FROM {post_tags} pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = p.id), '[]'::json)`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type tables struct {
	posts      string
	categories string
	tags       string
}

func tablesFor(kind model.Kind) tables {
	if kind == model.KindWebStory {
		return tables{posts: "web_stories", categories: "web_story_categories", tags: "web_story_tags"}
	}
	return tables{posts: "blogs", categories: "blog_categories", tags: "blog_tags"}
}

func (t tables) sql(query string) string {
	return strings.NewReplacer(
		"{posts}", t.posts,
		"{post_categories}", t.categories,
		"{post_tags}", t.tags,
	).Replace(query)
}

type postgresRepository struct {
	db database.DBTX
	t  tables
}

func NewPostgresRepository(db database.DBTX, kind model.Kind) PostRepository {
	return &postgresRepository{db: db, t: tablesFor(kind)}
}

// ============================================================
// WRITES
// ============================================================

// Create inserts the post and its category and tag links in one transaction
func (r *postgresRepository) Create(ctx context.Context, post *model.Post) error {
	query := r.t.sql(`
		INSERT INTO {posts} (
			id, title, body, slug, excerpt, meta_title, meta_description,
			date, photo_data, photo_content_type, posted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)

	var photoData []byte
	var photoType string
	if post.Photo != nil {
		photoData, photoType = post.Photo.Data, post.Photo.ContentType
	}
	var authorID string
	if post.PostedBy != nil {
		authorID = post.PostedBy.ID
	}

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			post.ID, post.Title, post.Body, post.Slug, post.Excerpt, post.MetaTitle, post.MetaDescription,
			post.Date, photoData, photoType, authorID,
		); err != nil {
			return err
		}
		if err := r.attach(ctx, tx, r.t.categories, "category_id", post.ID, taxonomy.IDs(post.Categories)); err != nil {
			return err
		}
		return r.attach(ctx, tx, r.t.tags, "tag_id", post.ID, taxonomy.IDs(post.Tags))
	})
	if err != nil {
		return storeError("create post", err)
	}
	return nil
}

// Update writes the scalar fields of post, then the photo and the
// reference sets the patch replaces
func (r *postgresRepository) Update(ctx context.Context, post *model.Post, patch model.PostPatch) error {
	query := r.t.sql(`
		UPDATE {posts}
		SET title = $2, body = $3, slug = $4, excerpt = $5,
		    meta_title = $6, meta_description = $7, date = $8, updated_at = NOW()
		WHERE id = $1
	`)

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			post.ID, post.Title, post.Body, post.Slug, post.Excerpt, post.MetaTitle, post.MetaDescription, post.Date,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotFound
		}

		if patch.Photo != nil {
			photoQuery := r.t.sql(`UPDATE {posts} SET photo_data = $2, photo_content_type = $3 WHERE id = $1`)
			if _, err := tx.Exec(ctx, photoQuery, post.ID, patch.Photo.Data, patch.Photo.ContentType); err != nil {
				return err
			}
		}
		if patch.CategoryIDs != nil {
			if err := r.replace(ctx, tx, r.t.categories, "category_id", post.ID, patch.CategoryIDs); err != nil {
				return err
			}
		}
		if patch.TagIDs != nil {
			if err := r.replace(ctx, tx, r.t.tags, "tag_id", post.ID, patch.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError("update post", err)
	}
	return nil
}

// Delete removes the post; links go with it through ON DELETE CASCADE.
// Deleting a missing slug is not an error.
func (r *postgresRepository) Delete(ctx context.Context, slug string) error {
	query := r.t.sql(`DELETE FROM {posts} WHERE slug = $1`)

	if _, err := r.db.Exec(ctx, query, slug); err != nil {
		return storeError("delete post", err)
	}
	return nil
}

func (r *postgresRepository) attach(ctx context.Context, tx pgx.Tx, table, column, postID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (post_id, %s) SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`, table, column)
	_, err := tx.Exec(ctx, query, postID, ids)
	return err
}

func (r *postgresRepository) replace(ctx context.Context, tx pgx.Tx, table, column, postID string, ids []string) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1`, table), postID); err != nil {
		return err
	}
	return r.attach(ctx, tx, table, column, postID, ids)
}

// ============================================================
// SINGLE READS
// ============================================================

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.body, p.slug, p.excerpt, p.meta_title, p.meta_description,
		       p.date, p.created_at, p.updated_at,
		       ` + categoriesJSON + `,
		       ` + tagsJSON + `,
		       u.id, u.name, u.username, u.profile
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		WHERE p.slug = $1
	`)

	var (
		p                    model.Post
		author               model.Author
		createdAt, updatedAt time.Time
		categories, tags     []byte
	)
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Title, &p.Body, &p.Slug, &p.Excerpt, &p.MetaTitle, &p.MetaDescription,
		&p.Date, &createdAt, &updatedAt,
		&categories, &tags,
		&author.ID, &author.Name, &author.Username, &author.Profile,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, storeError("get post", err)
	}

	if p.Categories, err = decodeTerms(categories); err != nil {
		return nil, storeError("decode categories", err)
	}
	if p.Tags, err = decodeTerms(tags); err != nil {
		return nil, storeError("decode tags", err)
	}
	p.PostedBy = &author
	p.CreatedAt = &createdAt
	p.UpdatedAt = &updatedAt

	return &p, nil
}

// FindPhoto returns ErrPhotoNotFound when the post or its photo is missing
func (r *postgresRepository) FindPhoto(ctx context.Context, slug string) (*model.Photo, error) {
	query := r.t.sql(`SELECT photo_data, photo_content_type FROM {posts} WHERE slug = $1`)

	photo := &model.Photo{}
	err := r.db.QueryRow(ctx, query, slug).Scan(&photo.Data, &photo.ContentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPhotoNotFound
	}
	if err != nil {
		return nil, storeError("get photo", err)
	}
	if len(photo.Data) == 0 {
		return nil, model.ErrPhotoNotFound
	}

	return photo, nil
}

// ============================================================
// LISTINGS
// ============================================================

func (r *postgresRepository) ListSitemap(ctx context.Context) ([]model.SitemapEntry, error) {
	query := r.t.sql(`SELECT id, slug, date FROM {posts} ORDER BY date DESC`)

	return collect(ctx, r.db, "list sitemap", query, nil, func(rows pgx.Rows) (model.SitemapEntry, error) {
		var e model.SitemapEntry
		err := rows.Scan(&e.ID, &e.Slug, &e.Date)
		return e, err
	})
}

func (r *postgresRepository) ListSlugs(ctx context.Context) ([]model.SlugEntry, error) {
	query := r.t.sql(`SELECT slug FROM {posts} ORDER BY date DESC`)

	return collect(ctx, r.db, "list slugs", query, nil, func(rows pgx.Rows) (model.SlugEntry, error) {
		var e model.SlugEntry
		err := rows.Scan(&e.Slug)
		return e, err
	})
}

// ListFeed returns the newest posts with their body for syndication
func (r *postgresRepository) ListFeed(ctx context.Context, limit int) ([]model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.excerpt, p.meta_description, p.slug, p.date, p.body,
		       u.id, u.name, u.username
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		ORDER BY p.date DESC
		LIMIT $1
	`)

	return collect(ctx, r.db, "list feed", query, []any{limit}, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var a model.Author
		err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.MetaDescription, &p.Slug, &p.Date, &p.Body,
			&a.ID, &a.Name, &a.Username)
		p.PostedBy = &a
		return p, err
	})
}

// List is the index projection with populated references
func (r *postgresRepository) List(ctx context.Context) ([]model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.slug, p.date,
		       ` + categoriesJSON + `,
		       ` + tagsJSON + `,
		       u.id, u.name, u.username
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		ORDER BY p.date DESC
	`)

	return collect(ctx, r.db, "list posts", query, nil, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var a model.Author
		var categories, tags []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Date, &categories, &tags,
			&a.ID, &a.Name, &a.Username); err != nil {
			return p, err
		}
		p.PostedBy = &a
		return p, withTerms(&p, categories, tags)
	})
}

// ListWithTaxonomy orders by post date, newest first
func (r *postgresRepository) ListWithTaxonomy(ctx context.Context) ([]model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.slug, p.excerpt, p.date, p.created_at, p.updated_at,
		       ` + categoriesJSON + `,
		       ` + tagsJSON + `,
		       u.id, u.name, u.username, u.profile
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		ORDER BY p.date DESC
	`)

	return collect(ctx, r.db, "list posts with taxonomy", query, nil, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var a model.Author
		var createdAt, updatedAt time.Time
		var categories, tags []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Date, &createdAt, &updatedAt,
			&categories, &tags, &a.ID, &a.Name, &a.Username, &a.Profile); err != nil {
			return p, err
		}
		p.PostedBy = &a
		p.CreatedAt = &createdAt
		p.UpdatedAt = &updatedAt
		return p, withTerms(&p, categories, tags)
	})
}

// ListRelated returns up to limit other posts sharing a category with postID
func (r *postgresRepository) ListRelated(ctx context.Context, postID string, categoryIDs []string, limit int) ([]model.Post, error) {
	if len(categoryIDs) == 0 {
		return []model.Post{}, nil
	}

	query := r.t.sql(`
		SELECT p.id, p.title, p.slug, p.excerpt, p.date,
		       u.id, u.name, u.username, u.profile
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		WHERE p.id <> $1
		  AND EXISTS (
		      SELECT 1 FROM {post_categories} pc
		      WHERE pc.post_id = p.id AND pc.category_id = ANY($2::text[])
		  )
		ORDER BY p.date DESC
		LIMIT $3
	`)

	args := []any{postID, categoryIDs, limit}
	return collect(ctx, r.db, "list related posts", query, args, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var a model.Author
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Date, &a.ID, &a.Name, &a.Username, &a.Profile)
		p.PostedBy = &a
		return p, err
	})
}

// Search matches title or body case-insensitively as a literal substring
func (r *postgresRepository) Search(ctx context.Context, q string) ([]model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.slug, p.excerpt, p.meta_title, p.meta_description, p.date,
		       ` + categoriesJSON + `,
		       ` + tagsJSON + `
		FROM {posts} p
		WHERE p.title ILIKE $1 OR p.body ILIKE $1
		ORDER BY p.date DESC
	`)

	pattern := "%" + likeEscaper.Replace(q) + "%"
	return collect(ctx, r.db, "search posts", query, []any{pattern}, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var categories, tags []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.MetaTitle, &p.MetaDescription, &p.Date,
			&categories, &tags); err != nil {
			return p, err
		}
		return p, withTerms(&p, categories, tags)
	})
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, userID string) ([]model.Post, error) {
	query := r.t.sql(`
		SELECT p.id, p.title, p.slug, p.date, u.id, u.name, u.username
		FROM {posts} p
		JOIN users u ON u.id = p.posted_by
		WHERE p.posted_by = $1
		ORDER BY p.date DESC
	`)

	return collect(ctx, r.db, "list posts by author", query, []any{userID}, func(rows pgx.Rows) (model.Post, error) {
		var p model.Post
		var a model.Author
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Date, &a.ID, &a.Name, &a.Username)
		p.PostedBy = &a
		return p, err
	})
}

// ============================================================
// HELPERS
// ============================================================

// collect runs query and scans every row; the result is never nil
func collect[T any](ctx context.Context, db database.DBTX, op, query string, args []any, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}

	return items, nil
}

func decodeTerms(raw []byte) ([]taxonomy.Term, error) {
	terms := []taxonomy.Term{}
	if len(raw) == 0 {
		return terms, nil
	}
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func withTerms(p *model.Post, categories, tags []byte) error {
	var err error
	if p.Categories, err = decodeTerms(categories); err != nil {
		return err
	}
	p.Tags, err = decodeTerms(tags)
	return err
}

// storeError maps database failures to client-facing messages.
// Domain errors pass through unchanged.
func storeError(op string, err error) error {
	var se *model.StoreError
	if errors.As(err, &se) || errors.Is(err, model.ErrNotFound) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return &model.StoreError{Message: "slug already exists", Err: err}
		case foreignKeyViolation:
			return &model.StoreError{Message: "referenced category, tag or user does not exist", Err: err}
		}
		return &model.StoreError{Message: pgErr.Message, Err: err}
	}

	return &model.StoreError{Message: "failed to " + op, Err: err}
}
