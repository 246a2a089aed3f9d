package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aerovista/core/internal/config"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Accepted multipart field names, in lookup order.
var fieldNames = []string{"image", "images", "video", "document"}

// allowedTypes maps accepted extensions to the MIME prefixes they must carry.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".svg":  {"image/svg+xml"},
	".mp4":  {"video/mp4"},
	".webm": {"video/webm"},
	".mov":  {"video/quicktime"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// Handler stores uploaded media under the configured uploads dir and serves
// it back as /uploads URLs.
type Handler struct {
	dir      string
	maxBytes int64
}

func NewHandler(cfg *config.AppConfig) *Handler {
	maxMB := cfg.Uploads.MaxSizeMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &Handler{
		dir:      cfg.Uploads.Dir,
		maxBytes: int64(maxMB) << 20,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/upload", authMW, h.upload)
}

// ServeStatic mounts the uploads dir on the root engine.
func (h *Handler) ServeStatic(r *gin.Engine) {
	r.Static("/uploads", h.dir)
}

// upload POST /upload  [auth]
func (h *Handler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}

	var files []*multipart.FileHeader
	for _, field := range fieldNames {
		files = append(files, form.File[field]...)
	}
	if len(files) == 0 {
		response.BadRequest(c, "no file in image, images, video, or document field")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		response.InternalError(c, err)
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxBytes {
			response.BadRequest(c, fmt.Sprintf("%s exceeds the %dMB limit", fh.Filename, h.maxBytes>>20))
			return
		}

		name, err := h.validate(fh)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		if err := c.SaveUploadedFile(fh, filepath.Join(h.dir, name)); err != nil {
			response.InternalError(c, err)
			return
		}
		urls = append(urls, "/uploads/"+name)
	}

	if len(urls) == 1 {
		response.Created(c, gin.H{"url": urls[0]})
		return
	}
	response.Created(c, gin.H{"urls": urls})
}

// validate checks the extension and declared MIME type and returns the
// hashed storage filename.
func (h *Handler) validate(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimes, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}

	contentType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if contentType != "" {
		matched := false
		for _, m := range mimes {
			if strings.HasPrefix(contentType, m) {
				matched = true
				break
			}
		}
		if !matched {
			return "", fmt.Errorf("content type %q does not match %s", contentType, ext)
		}
	}

	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext, nil
}
