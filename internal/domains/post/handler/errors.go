package handler

import (
	"errors"
	"net/http"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func (h *PostHandler) handleError(c *gin.Context, err error) {
	status, message := mapPostError(h.kind, err)
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled post error", err)
	}
	response.Error(c, status, message)
}

// mapPostError maps a domain error to its HTTP status and client message
func mapPostError(kind model.Kind, err error) (int, string) {
	var (
		validationErr *model.ValidationError
		tooLargeErr   *model.PhotoTooLargeError
		storeErr      *model.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.As(err, &tooLargeErr):
		return http.StatusBadRequest, tooLargeErr.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, kind.NotFoundMessage()
	case errors.Is(err, model.ErrUploadFailed),
		errors.Is(err, model.ErrPhotoNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &storeErr):
		return http.StatusBadRequest, storeErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
