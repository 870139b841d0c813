package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	postHandler "blog-backend/internal/domains/post/handler"
	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

// routeDeps is what the route table needs from the container
type routeDeps struct {
	blog      *postHandler.PostHandler
	webStory  *postHandler.PostHandler
	validator middleware.TokenValidator
	health    gin.HandlerFunc
	origins   []string
}

func SetupRouter(c *container.Container) *gin.Engine {
	return newRouter(routeDeps{
		blog:      c.BlogHandler,
		webStory:  c.WebStoryHandler,
		validator: c.JWTManager,
		health:    healthCheckHandler(c),
		origins:   c.Config.CORS.AllowedOrigins,
	})
}

func newRouter(deps routeDeps) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(deps.origins),
	)

	admin := []gin.HandlerFunc{
		middleware.AuthMiddleware(deps.validator),
		middleware.AdminMiddleware(),
	}

	api := router.Group("/api")
	{
		api.GET("/health", deps.health)

		setupBlogRoutes(api, deps.blog, admin)
		setupWebStoryRoutes(api, deps.webStory, admin)
	}

	return router
}

// ========================================
// BLOG ROUTES
// ========================================
func setupBlogRoutes(api *gin.RouterGroup, h *postHandler.PostHandler, admin []gin.HandlerFunc) {
	api.POST("/blog", append(admin, h.Create)...)
	api.DELETE("/blog/:slug", append(admin, h.Remove)...)
	api.PATCH("/blog/:slug", append(admin, h.Update)...)

	api.GET("/blogs", h.List)
	api.GET("/allblogs", h.ListSitemap)
	api.GET("/allblogslugs", h.ListSlugs)
	api.GET("/rss", h.ListFeed)
	api.GET("/rss.xml", h.FeedXML)
	api.GET("/blogs-categories-tags", h.ListWithTaxonomy)
	api.GET("/blogs/search", h.Search)
	api.GET("/blog/:slug", h.Read)
	api.GET("/blog/related/:slug", h.ListRelated)
	api.GET("/blog/photo/:slug", h.Photo)
	api.GET("/user/:username/blogs", h.ListByUser)
}

// ========================================
// WEB STORY ROUTES
// ========================================
func setupWebStoryRoutes(api *gin.RouterGroup, h *postHandler.PostHandler, admin []gin.HandlerFunc) {
	api.POST("/webstory", append(admin, h.Create)...)
	api.DELETE("/webstorydelete/:slug", append(admin, h.Remove)...)
	api.PATCH("/webstoriesupdate/:slug", append(admin, h.Update)...)

	api.GET("/webstories/:slug", h.Read)
	api.GET("/allwebstories", h.List)
	api.GET("/webstory-slugs", h.ListSlugs)
	api.GET("/webstories/search", h.Search)
	api.GET("/webstory/photo/:slug", h.Photo)
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		services := gin.H{"database": "ok", "redis": "ok"}

		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			services["database"] = fmt.Sprintf("error: %v", err)
			status = http.StatusServiceUnavailable
		}
		// the API keeps serving without Redis, so it only degrades the report
		if err := appCtx.Cache.Ping(ctx); err != nil {
			services["redis"] = fmt.Sprintf("error: %v", err)
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		} else if services["redis"] != "ok" {
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
