package handler

import (
	"errors"
	"io"
	"net/http"

	"blog-backend/internal/domains/post/model"
	"blog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const multipartMemory = 32 << 20

// readForm decodes a multipart or urlencoded post form. Only the first
// value of each field is used.
func (h *PostHandler) readForm(c *gin.Context) (map[string]string, *model.Photo, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		logger.Warn("Failed to parse post form", map[string]interface{}{"error": err.Error()})
		return nil, nil, model.ErrUploadFailed
	}

	fields := make(map[string]string)
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	form := c.Request.MultipartForm
	if form == nil {
		return fields, nil, nil
	}
	for key, values := range form.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	files := form.File[model.FieldPhoto]
	if len(files) == 0 || files[0].Size == 0 {
		return fields, nil, nil
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, nil, model.ErrUploadFailed
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, model.ErrUploadFailed
	}

	contentType := files[0].Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return fields, &model.Photo{Data: data, ContentType: contentType}, nil
}
