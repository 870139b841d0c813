package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"blog-backend/internal/domains/post/model"
	"blog-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// startServices checks dependencies, queues an initial warm-up and
// starts the probe server
func startServices(c *container.Container) error {
	log.Info().Str("version", c.Config.App.Version).Msg("Blog worker starting")

	if err := checkAll(c); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, kind := range []model.Kind{model.KindBlog, model.KindWebStory} {
		if err := c.AsynqClient.EnqueueWarmListings(ctx, string(kind)); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("Initial warm-up not queued")
		}
	}

	go startHealthCheckServer(c.Config.Worker.HealthPort)

	return nil
}

// checkAll runs all health checks
func checkAll(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", c.Cache.Ping},
		{"PostgreSQL Connection", c.DB.HealthCheck},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}

	return nil
}

func newHealthRouter() *gin.Engine {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "blog-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return router
}

// startHealthCheckServer serves liveness and readiness probes
func startHealthCheckServer(port string) {
	log.Info().Str("port", port).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(":"+port, newHealthRouter()); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
