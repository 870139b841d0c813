package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	taxonomyModel "blog-backend/internal/domains/taxonomy/model"
	taxonomyRepo "blog-backend/internal/domains/taxonomy/repository"
	userModel "blog-backend/internal/domains/user/model"
	userRepo "blog-backend/internal/domains/user/repository"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"

	"github.com/google/uuid"
)

// Cached listing views
const (
	viewSitemap = "sitemap"
	viewSlugs   = "slugs"
	viewFeed    = "feed"
	viewList    = "list"
)

const DefaultListingTTL = 10 * time.Minute

type Options struct {
	MaxPhotoBytes int64
	ListingTTL    time.Duration
}

type postService struct {
	kind     model.Kind
	rules    model.Rules
	repo     repository.PostRepository
	taxonomy taxonomyRepo.Repository
	users    userRepo.Repository
	cache    cache.Cache
	enqueuer TaskEnqueuer
	images   ImageResizer
	ttl      time.Duration
}

// NewPostService wires the workflow for one kind. cache, enqueuer and
// images may be nil.
func NewPostService(
	kind model.Kind,
	repo repository.PostRepository,
	taxonomy taxonomyRepo.Repository,
	users userRepo.Repository,
	cache cache.Cache,
	enqueuer TaskEnqueuer,
	images ImageResizer,
	opts Options,
) PostService {
	ttl := opts.ListingTTL
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	return &postService{
		kind:     kind,
		rules:    model.RulesFor(kind, opts.MaxPhotoBytes),
		repo:     repo,
		taxonomy: taxonomy,
		users:    users,
		cache:    cache,
		enqueuer: enqueuer,
		images:   images,
		ttl:      ttl,
	}
}

// ============================================================
// WRITES
// ============================================================

func (s *postService) Create(ctx context.Context, authorID string, req model.CreatePostRequest) (*model.Post, error) {
	if err := req.Validate(s.rules); err != nil {
		return nil, err
	}
	if err := s.rules.CheckPhoto(req.Photo); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	post := &model.Post{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Body:            req.Body,
		Slug:            utils.NormalizeSlug(req.Slug),
		Excerpt:         model.Excerpt(req.Body),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Date:            date,
		PostedBy:        &model.Author{ID: authorID},
		Photo:           req.Photo,
	}
	if len(req.CategoryIDs) > 0 {
		post.Categories = taxonomyModel.FromIDs(req.CategoryIDs)
	}
	if len(req.TagIDs) > 0 {
		post.Tags = taxonomyModel.FromIDs(req.TagIDs)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		logger.Error(fmt.Sprintf("Failed to create %s", s.kind), err)
		return nil, err
	}

	logger.Info("Post created", map[string]interface{}{
		"kind": string(s.kind),
		"id":   post.ID,
		"slug": post.Slug,
	})
	s.invalidateListings(ctx)

	return s.repo.FindBySlug(ctx, post.Slug)
}

// Update applies the patch to the post at slug. An oversized photo is
// rejected before anything is written.
func (s *postService) Update(ctx context.Context, slug string, patch model.PostPatch) (*model.Post, error) {
	if err := s.rules.CheckPhoto(patch.Photo); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	updated := model.ApplyPatch(*existing, patch)
	if err := s.repo.Update(ctx, &updated, patch); err != nil {
		logger.Error(fmt.Sprintf("Failed to update %s", s.kind), err)
		return nil, err
	}

	logger.Info("Post updated", map[string]interface{}{
		"kind": string(s.kind),
		"id":   updated.ID,
		"slug": updated.Slug,
	})
	s.invalidateListings(ctx)

	return s.repo.FindBySlug(ctx, updated.Slug)
}

func (s *postService) Remove(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, utils.NormalizeSlug(slug)); err != nil {
		logger.Error(fmt.Sprintf("Failed to delete %s", s.kind), err)
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

// ============================================================
// READS
// ============================================================

func (s *postService) Read(ctx context.Context, slug string) (*model.Post, error) {
	return s.repo.FindBySlug(ctx, utils.NormalizeSlug(slug))
}

// Photo returns the stored photo, scaled to width when width > 0.
// Variants are cached per snapped width. A photo that cannot be resized
// is served as stored.
func (s *postService) Photo(ctx context.Context, slug string, width int) (*model.Photo, error) {
	slug = utils.NormalizeSlug(slug)
	if width <= 0 || s.images == nil {
		return s.repo.FindPhoto(ctx, slug)
	}

	width = s.images.VariantWidth(width)
	view := fmt.Sprintf("photo:%s:%d", slug, width)
	return cached(ctx, s, view, func(ctx context.Context) (*model.Photo, error) {
		return s.resizedPhoto(ctx, slug, width)
	})
}

func (s *postService) resizedPhoto(ctx context.Context, slug string, width int) (*model.Photo, error) {
	photo, err := s.repo.FindPhoto(ctx, slug)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.images.Resize(photo.Data, photo.ContentType, width)
	if err != nil {
		logger.Warn("Serving original photo", map[string]interface{}{
			"slug":  slug,
			"width": width,
			"error": err.Error(),
		})
		return photo, nil
	}
	return &model.Photo{Data: data, ContentType: contentType}, nil
}

func (s *postService) ListSitemap(ctx context.Context) ([]model.SitemapEntry, error) {
	return cached(ctx, s, viewSitemap, s.repo.ListSitemap)
}

func (s *postService) ListSlugs(ctx context.Context) ([]model.SlugEntry, error) {
	return cached(ctx, s, viewSlugs, s.repo.ListSlugs)
}

func (s *postService) ListFeed(ctx context.Context) ([]model.Post, error) {
	return cached(ctx, s, viewFeed, s.loadFeed)
}

func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	return cached(ctx, s, viewList, s.repo.List)
}

// ListWithTaxonomy loads posts, then categories, then tags. Any failure
// aborts the whole listing.
func (s *postService) ListWithTaxonomy(ctx context.Context) (*model.TaxonomyListing, error) {
	posts, err := s.repo.ListWithTaxonomy(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, &model.StoreError{Message: "failed to list categories", Err: err}
	}
	tags, err := s.taxonomy.ListTags(ctx)
	if err != nil {
		return nil, &model.StoreError{Message: "failed to list tags", Err: err}
	}

	return &model.TaxonomyListing{
		Posts:      posts,
		Categories: categories,
		Tags:       tags,
		Size:       len(posts),
	}, nil
}

func (s *postService) ListRelated(ctx context.Context, slug string) ([]model.Post, error) {
	post, err := s.repo.FindBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	return s.repo.ListRelated(ctx, post.ID, taxonomyModel.IDs(post.Categories), RelatedLimit)
}

// Search with a blank query matches nothing
func (s *postService) Search(ctx context.Context, query string) ([]model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Post{}, nil
	}
	return s.repo.Search(ctx, query)
}

func (s *postService) ListByUser(ctx context.Context, username string) ([]model.Post, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, userModel.ErrUserNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, &model.StoreError{Message: "failed to find user", Err: err}
	}
	return s.repo.ListByAuthor(ctx, user.ID)
}

// ============================================================
// CACHE
// ============================================================

func (s *postService) WarmListings(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	gen := s.generation(ctx)
	steps := []func() error{
		func() error { return warm(ctx, s, gen, viewSitemap, s.repo.ListSitemap) },
		func() error { return warm(ctx, s, gen, viewSlugs, s.repo.ListSlugs) },
		func() error { return warm(ctx, s, gen, viewFeed, s.loadFeed) },
		func() error { return warm(ctx, s, gen, viewList, s.repo.List) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	logger.Debug(fmt.Sprintf("Warmed %s listings", s.kind))
	return nil
}

func (s *postService) loadFeed(ctx context.Context) ([]model.Post, error) {
	return s.repo.ListFeed(ctx, FeedSize)
}

// Listing keys carry a generation that every write replaces. A read
// that loaded before the write committed stores its result under the
// previous generation, where no later read looks.
func (s *postService) generationKey() string {
	return fmt.Sprintf("content:gen:%s", s.kind)
}

func (s *postService) generation(ctx context.Context) string {
	var gen string
	found, err := s.cache.Get(ctx, s.generationKey(), &gen)
	if err != nil {
		logger.Warn("Cache generation read failed", map[string]interface{}{"kind": string(s.kind), "error": err.Error()})
	}
	if !found || gen == "" {
		return "0"
	}
	return gen
}

func (s *postService) cacheKey(gen, view string) string {
	return fmt.Sprintf("content:%s:%s:%s", s.kind, gen, view)
}

// invalidateListings moves the kind to a new cache generation, drops the
// old entries and asks the worker to rebuild them. It outlives the request
// context. Failures are logged and never returned.
func (s *postService) invalidateListings(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.generationKey(), uuid.NewString(), 0); err != nil {
			logger.Error("Failed to advance listing cache generation", err)
		}
		if err := s.cache.DeletePattern(ctx, fmt.Sprintf("content:%s:*", s.kind)); err != nil {
			logger.Error("Failed to invalidate listing cache", err)
		}
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueWarmListings(ctx, string(s.kind)); err != nil {
			logger.Error("Failed to enqueue listing warm-up", err)
		}
	}
}

// cached serves view from the cache, loading and storing it on a miss
func cached[T any](ctx context.Context, s *postService, view string, load func(context.Context) (T, error)) (T, error) {
	var key string

	if s.cache != nil {
		key = s.cacheKey(s.generation(ctx), view)
		var hit T
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			logger.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if found {
			return hit, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			logger.Warn("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return value, nil
}

func warm[T any](ctx context.Context, s *postService, gen, view string, load func(context.Context) (T, error)) error {
	value, err := load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s %s: %w", s.kind, view, err)
	}
	if err := s.cache.Set(ctx, s.cacheKey(gen, view), value, s.ttl); err != nil {
		return fmt.Errorf("failed to cache %s %s: %w", s.kind, view, err)
	}
	return nil
}
