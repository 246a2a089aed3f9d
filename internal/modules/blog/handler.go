package blog

import (
	"errors"

	"github.com/aerovista/core/internal/middleware"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler handles blog HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts blog routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	blogs := rg.Group("/blog")

	blogs.GET("", h.list)
	blogs.GET("/slug/:slug", h.getBySlug)

	authed := blogs.Group("", authMW)
	authed.GET("/:id", h.getByID)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /blog
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	publishedOnly := !middleware.IsAuthenticated(c)

	posts, pag, err := h.svc.List(q, publishedOnly, c.Query("tag"))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]blogResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

// getBySlug GET /blog/slug/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	isAdmin := middleware.IsAuthenticated(c)
	post, err := h.svc.GetBySlug(c.Param("slug"), isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	go func() { _ = h.svc.IncrementReadCount(post.ID) }()

	resp := toResponse(post)
	if html, err := h.svc.RenderHTML(post.Text); err == nil {
		resp.HTML = html
	}
	response.OK(c, resp)
}

// getByID GET /blog/:id  [auth]
func (h *Handler) getByID(c *gin.Context) {
	post, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// create POST /blog  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(post))
}

// update PUT /blog/:id  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// delete DELETE /blog/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
