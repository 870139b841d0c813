package main

import (
	"github.com/hibiken/asynq"

	postJob "blog-backend/internal/domains/post/job"
	"blog-backend/internal/shared"
	"blog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	warmListings *postJob.WarmListingsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		warmListings: postJob.NewWarmListingsHandler(c.Services()),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeWarmListings, h.warmListings.ProcessTask)
}
