package handler

import (
	"net/http"
	"strconv"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// HANDLER STRUCT
// ============================================================

// PostHandler serves one content kind. Blogs and web stories get
// separate instances mounted on their own routes.
type PostHandler struct {
	kind         model.Kind
	service      service.PostService
	site         config.SiteConfig
	maxBodyBytes int64
}

func NewPostHandler(kind model.Kind, svc service.PostService, site config.SiteConfig, maxPhotoBytes int64) *PostHandler {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = model.DefaultMaxPhotoBytes
	}
	return &PostHandler{
		kind:    kind,
		service: svc,
		site:    site,
		// an oversized photo must still reach the size check
		maxBodyBytes: 2*maxPhotoBytes + 1<<20,
	}
}

// ========== CREATE: POST /blog ==========
func (h *PostHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	fields, photo, err := h.readForm(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	post, err := h.service.Create(c.Request.Context(), userID, model.NewCreatePostRequest(fields, photo))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, post)
}

// ========== UPDATE: PATCH /blog/:slug ==========
func (h *PostHandler) Update(c *gin.Context) {
	fields, photo, err := h.readForm(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	patch, err := model.PatchFromForm(fields, photo)
	if err != nil {
		h.handleError(c, err)
		return
	}

	post, err := h.service.Update(c.Request.Context(), c.Param("slug"), patch)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, post)
}

// ========== REMOVE: DELETE /blog/:slug ==========
func (h *PostHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}

	response.Message(c, h.kind.DeletedMessage())
}

// ========== READ: GET /blog/:slug ==========
func (h *PostHandler) Read(c *gin.Context) {
	post, err := h.service.Read(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, post)
}

// ========== PHOTO: GET /blog/photo/:slug?w=640 ==========
func (h *PostHandler) Photo(c *gin.Context) {
	width, _ := strconv.Atoi(c.Query("w"))

	photo, err := h.service.Photo(c.Request.Context(), c.Param("slug"), width)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}

// ========== LISTINGS ==========

func (h *PostHandler) ListSitemap(c *gin.Context) {
	entries, err := h.service.ListSitemap(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *PostHandler) ListSlugs(c *gin.Context) {
	slugs, err := h.service.ListSlugs(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, slugs)
}

func (h *PostHandler) ListFeed(c *gin.Context) {
	posts, err := h.service.ListFeed(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) ListWithTaxonomy(c *gin.Context) {
	listing, err := h.service.ListWithTaxonomy(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, listing)
}

func (h *PostHandler) ListRelated(c *gin.Context) {
	posts, err := h.service.ListRelated(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, posts)
}

// Search reads the ?search= query parameter
func (h *PostHandler) Search(c *gin.Context) {
	posts, err := h.service.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, posts)
}

func (h *PostHandler) ListByUser(c *gin.Context) {
	posts, err := h.service.ListByUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, posts)
}
