package service

import (
	"context"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	taxonomyModel "blog-backend/internal/domains/taxonomy/model"
	taxonomyRepo "blog-backend/internal/domains/taxonomy/repository"
	userModel "blog-backend/internal/domains/user/model"
	userRepo "blog-backend/internal/domains/user/repository"

	"github.com/stretchr/testify/mock"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *model.Post, patch model.PostPatch) error {
	return m.Called(ctx, post, patch).Error(0)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) FindPhoto(ctx context.Context, slug string) (*model.Photo, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockPostRepository) ListSitemap(ctx context.Context) ([]model.SitemapEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SitemapEntry), args.Error(1)
}

func (m *MockPostRepository) ListSlugs(ctx context.Context) ([]model.SlugEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SlugEntry), args.Error(1)
}

func (m *MockPostRepository) ListFeed(ctx context.Context, limit int) ([]model.Post, error) {
	return m.posts(m.Called(ctx, limit))
}

func (m *MockPostRepository) List(ctx context.Context) ([]model.Post, error) {
	return m.posts(m.Called(ctx))
}

func (m *MockPostRepository) ListWithTaxonomy(ctx context.Context) ([]model.Post, error) {
	return m.posts(m.Called(ctx))
}

func (m *MockPostRepository) ListRelated(ctx context.Context, postID string, categoryIDs []string, limit int) ([]model.Post, error) {
	return m.posts(m.Called(ctx, postID, categoryIDs, limit))
}

func (m *MockPostRepository) Search(ctx context.Context, query string) ([]model.Post, error) {
	return m.posts(m.Called(ctx, query))
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, userID string) ([]model.Post, error) {
	return m.posts(m.Called(ctx, userID))
}

func (m *MockPostRepository) posts(args mock.Arguments) ([]model.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListCategories(ctx context.Context) ([]taxonomyModel.Term, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]taxonomyModel.Term), args.Error(1)
}

func (m *MockTaxonomyRepository) ListTags(ctx context.Context) ([]taxonomyModel.Term, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]taxonomyModel.Term), args.Error(1)
}

var _ taxonomyRepo.Repository = (*MockTaxonomyRepository)(nil)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*userModel.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

var _ userRepo.Repository = (*MockUserRepository)(nil)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueWarmListings(ctx context.Context, kind string) error {
	return m.Called(ctx, kind).Error(0)
}

type MockResizer struct {
	mock.Mock
}

func (m *MockResizer) VariantWidth(width int) int {
	return m.Called(width).Int(0)
}

func (m *MockResizer) Resize(data []byte, contentType string, width int) ([]byte, string, error) {
	args := m.Called(data, contentType, width)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
