package portfolio

import (
	"errors"
	"time"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePortfolioDTO is the request body for creating a showcase item.
type CreatePortfolioDTO struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category" binding:"required"`
	MediaURLs   []string   `json:"mediaUrls"`
	Client      string     `json:"client"`
	Location    string     `json:"location"`
	CompletedAt *time.Time `json:"completedAt"`
	Featured    *bool      `json:"featured"`
}

// UpdatePortfolioDTO is the request body for updating an item.
type UpdatePortfolioDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	MediaURLs   []string   `json:"mediaUrls"`
	Client      *string    `json:"client"`
	Location    *string    `json:"location"`
	CompletedAt *time.Time `json:"completedAt"`
	Featured    *bool      `json:"featured"`
}

// Service owns portfolio persistence.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns items, optionally filtered by category, featured first.
func (s *Service) List(q pagination.Query, category string, featuredOnly bool) ([]models.PortfolioModel, response.Pagination, error) {
	tx := s.db.Model(&models.PortfolioModel{}).Order("featured DESC, created_at DESC")
	if category != "" {
		if !models.ValidPortfolioCategory(models.PortfolioCategory(category)) {
			return nil, response.Pagination{}, errors.New("unknown category")
		}
		tx = tx.Where("category = ?", category)
	}
	if featuredOnly {
		tx = tx.Where("featured = ?", true)
	}

	var items []models.PortfolioModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// GetByID loads one item, nil when missing.
func (s *Service) GetByID(id string) (*models.PortfolioModel, error) {
	var item models.PortfolioModel
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a showcase item.
func (s *Service) Create(dto *CreatePortfolioDTO) (*models.PortfolioModel, error) {
	category := models.PortfolioCategory(dto.Category)
	if !models.ValidPortfolioCategory(category) {
		return nil, errors.New("unknown category")
	}

	item := &models.PortfolioModel{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    category,
		MediaURLs:   dto.MediaURLs,
		Client:      dto.Client,
		Location:    dto.Location,
		CompletedAt: dto.CompletedAt,
	}
	if dto.Featured != nil {
		item.Featured = *dto.Featured
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update; returns nil when the item is missing.
func (s *Service) Update(id string, dto *UpdatePortfolioDTO) (*models.PortfolioModel, error) {
	item, err := s.GetByID(id)
	if err != nil || item == nil {
		return item, err
	}

	if dto.Category != nil {
		category := models.PortfolioCategory(*dto.Category)
		if !models.ValidPortfolioCategory(category) {
			return nil, errors.New("unknown category")
		}
		item.Category = category
	}
	if dto.Title != nil {
		item.Title = *dto.Title
	}
	if dto.Description != nil {
		item.Description = *dto.Description
	}
	if dto.MediaURLs != nil {
		item.MediaURLs = dto.MediaURLs
	}
	if dto.Client != nil {
		item.Client = *dto.Client
	}
	if dto.Location != nil {
		item.Location = *dto.Location
	}
	if dto.CompletedAt != nil {
		item.CompletedAt = dto.CompletedAt
	}
	if dto.Featured != nil {
		item.Featured = *dto.Featured
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PortfolioModel{}, "id = ?", id).Error
}

// Handler handles portfolio HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	items := rg.Group("/portfolio")

	items.GET("", h.list)
	items.GET("/:id", h.getByID)

	authed := items.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(q, c.Query("category"), c.Query("featured") == "true")
	if err != nil {
		if err.Error() == "unknown category" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) getByID(c *gin.Context) {
	item, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "portfolio item not found")
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePortfolioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Create(&dto)
	if err != nil {
		if err.Error() == "unknown category" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePortfolioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if err.Error() == "unknown category" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "portfolio item not found")
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
