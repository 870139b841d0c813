package repository

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// PostRepository persists one content kind. Reads of a single post
// populate categories, tags and author.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post, patch model.PostPatch) error
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	FindPhoto(ctx context.Context, slug string) (*model.Photo, error)
	Delete(ctx context.Context, slug string) error

	ListSitemap(ctx context.Context) ([]model.SitemapEntry, error)
	ListSlugs(ctx context.Context) ([]model.SlugEntry, error)
	ListFeed(ctx context.Context, limit int) ([]model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListWithTaxonomy(ctx context.Context) ([]model.Post, error)
	ListRelated(ctx context.Context, postID string, categoryIDs []string, limit int) ([]model.Post, error)
	Search(ctx context.Context, query string) ([]model.Post, error)
	ListByAuthor(ctx context.Context, userID string) ([]model.Post, error)
}
