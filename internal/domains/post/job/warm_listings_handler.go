package job

import (
	"context"
	"encoding/json"
	"fmt"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// WarmListingsHandler rebuilds the cached listings named by the task payload
type WarmListingsHandler struct {
	services map[model.Kind]service.PostService
}

func NewWarmListingsHandler(services map[model.Kind]service.PostService) *WarmListingsHandler {
	return &WarmListingsHandler{services: services}
}

func (h *WarmListingsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.WarmListingsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal WarmListings payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	kind, err := model.ParseKind(payload.Kind)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	svc, ok := h.services[kind]
	if !ok {
		return fmt.Errorf("no service for %s: %w", kind, asynq.SkipRetry)
	}

	if err := svc.WarmListings(ctx); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to warm listings")
		return err
	}

	log.Info().Str("kind", string(kind)).Msg("Listings warmed")
	return nil
}
