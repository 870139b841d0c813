package service

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

const (
	FeedSize     = 7
	RelatedLimit = 6
)

// PostService is the content workflow shared by blogs and web stories
type PostService interface {
	Create(ctx context.Context, authorID string, req model.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, slug string, patch model.PostPatch) (*model.Post, error)
	Read(ctx context.Context, slug string) (*model.Post, error)
	Remove(ctx context.Context, slug string) error
	Photo(ctx context.Context, slug string, width int) (*model.Photo, error)

	ListSitemap(ctx context.Context) ([]model.SitemapEntry, error)
	ListSlugs(ctx context.Context) ([]model.SlugEntry, error)
	ListFeed(ctx context.Context) ([]model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListWithTaxonomy(ctx context.Context) (*model.TaxonomyListing, error)
	ListRelated(ctx context.Context, slug string) ([]model.Post, error)
	Search(ctx context.Context, query string) ([]model.Post, error)
	ListByUser(ctx context.Context, username string) ([]model.Post, error)

	// WarmListings reloads every cached listing of the kind
	WarmListings(ctx context.Context) error
}

// TaskEnqueuer schedules background listing refreshes
type TaskEnqueuer interface {
	EnqueueWarmListings(ctx context.Context, kind string) error
}

// ImageResizer scales photos on read
type ImageResizer interface {
	// VariantWidth maps a requested width to the one actually served
	VariantWidth(width int) int
	Resize(data []byte, contentType string, width int) ([]byte, string, error)
}
