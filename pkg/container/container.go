package container

import (
	"context"
	"fmt"
	"time"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"

	postHandler "blog-backend/internal/domains/post/handler"
	"blog-backend/internal/domains/post/model"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	taxonomyRepo "blog-backend/internal/domains/taxonomy/repository"
	userRepo "blog-backend/internal/domains/user/repository"

	"github.com/hibiken/asynq"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by cmd/api and cmd/worker
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisCache
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *queue.Client
	Images      *storage.ImageProcessor

	// Repositories
	UserRepo     userRepo.Repository
	TaxonomyRepo taxonomyRepo.Repository
	BlogRepo     postRepo.PostRepository
	WebStoryRepo postRepo.PostRepository

	// Services
	BlogService     postService.PostService
	WebStoryService postService.PostService

	// Handlers
	BlogHandler     *postHandler.PostHandler
	WebStoryHandler *postHandler.PostHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})
	return c, nil
}

// RedisOpt is the asynq connection to the configured Redis
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// STEP 1: INFRASTRUCTURE
// ========================================
func (c *Container) initInfrastructure() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	if c.Config.App.AutoMigrate {
		if err := database.MigrateUp(dbConfig); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// the cache is optional at runtime: failures are logged and reads fall through
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("Redis unavailable, listings will be served uncached", map[string]interface{}{
			"addr":  c.Config.Redis.Host,
			"error": err.Error(),
		})
	}
	c.Redis = redisCache
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret)
	c.AsynqClient = queue.NewClient(c.RedisOpt())
	c.Images = storage.NewImageProcessor()

	return nil
}

// ========================================
// STEP 2: REPOSITORIES
// ========================================
func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.TaxonomyRepo = taxonomyRepo.NewPostgresRepository(pool)
	c.BlogRepo = postRepo.NewPostgresRepository(pool, model.KindBlog)
	c.WebStoryRepo = postRepo.NewPostgresRepository(pool, model.KindWebStory)
}

// ========================================
// STEP 3: SERVICES
// ========================================
func (c *Container) initServices() {
	opts := postService.Options{
		MaxPhotoBytes: c.Config.Upload.MaxPhotoBytes,
		ListingTTL:    c.Config.Cache.ListingTTL,
	}

	c.BlogService = postService.NewPostService(
		model.KindBlog, c.BlogRepo, c.TaxonomyRepo, c.UserRepo,
		c.Cache, c.AsynqClient, c.Images, opts,
	)
	c.WebStoryService = postService.NewPostService(
		model.KindWebStory, c.WebStoryRepo, c.TaxonomyRepo, c.UserRepo,
		c.Cache, c.AsynqClient, c.Images, opts,
	)
}

// ========================================
// STEP 4: HANDLERS
// ========================================
func (c *Container) initHandlers() {
	site := c.Config.Site
	maxPhoto := c.Config.Upload.MaxPhotoBytes

	c.BlogHandler = postHandler.NewPostHandler(model.KindBlog, c.BlogService, site, maxPhoto)
	c.WebStoryHandler = postHandler.NewPostHandler(model.KindWebStory, c.WebStoryService, site, maxPhoto)
}

// Services returns the post services keyed by kind
func (c *Container) Services() map[model.Kind]postService.PostService {
	return map[model.Kind]postService.PostService{
		model.KindBlog:     c.BlogService,
		model.KindWebStory: c.WebStoryService,
	}
}

// Cleanup releases connections; safe on a partially built container
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("Container cleanup completed", nil)
}
