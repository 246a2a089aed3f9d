package quotation

import (
	"errors"
	"fmt"

	"github.com/aerovista/core/internal/config"
	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/modules/notification"
	"github.com/aerovista/core/internal/modules/visitor"
	"github.com/aerovista/core/internal/pkg/mail"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrUnknownStatus      = errors.New("unknown status")
)

// CreateQuotationDTO is the public quote-request body.
type CreateQuotationDTO struct {
	Name        string `json:"name"        binding:"required"`
	Email       string `json:"email"       binding:"required,email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType" binding:"required"`
	Details     string `json:"details"     binding:"required"`
	Budget      string `json:"budget"`
}

// UpdateStatusDTO is the admin status-change body.
type UpdateStatusDTO struct {
	Status    string  `json:"status" binding:"required"`
	AdminNote *string `json:"adminNote"`
}

// Service owns quotation persistence.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Create validates and stores a quote request.
func (s *Service) Create(dto *CreateQuotationDTO, sessionID string) (*models.QuotationModel, error) {
	serviceType := models.ServiceType(dto.ServiceType)
	if !models.ValidServiceType(serviceType) {
		return nil, ErrUnknownServiceType
	}

	q := &models.QuotationModel{
		Name:        dto.Name,
		Email:       dto.Email,
		Phone:       dto.Phone,
		ServiceType: serviceType,
		Details:     dto.Details,
		Budget:      dto.Budget,
		Status:      models.QuotationPending,
		SessionID:   sessionID,
	}
	if err := s.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// List returns quotations, optionally filtered by status, newest first.
func (s *Service) List(q pagination.Query, status string) ([]models.QuotationModel, response.Pagination, error) {
	tx := s.db.Model(&models.QuotationModel{}).Order("created_at DESC")
	if status != "" {
		if !models.ValidQuotationStatus(models.QuotationStatus(status)) {
			return nil, response.Pagination{}, ErrUnknownStatus
		}
		tx = tx.Where("status = ?", status)
	}

	var items []models.QuotationModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// UpdateStatus moves a quotation through its lifecycle. Returns nil when the
// quotation is missing.
func (s *Service) UpdateStatus(id string, dto *UpdateStatusDTO) (*models.QuotationModel, error) {
	status := models.QuotationStatus(dto.Status)
	if !models.ValidQuotationStatus(status) {
		return nil, ErrUnknownStatus
	}

	var q models.QuotationModel
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	q.Status = status
	if dto.AdminNote != nil {
		q.AdminNote = *dto.AdminNote
	}
	if err := s.db.Save(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// Delete removes a quotation.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.QuotationModel{}, "id = ?", id).Error
}

// Handler handles quotation HTTP requests.
type Handler struct {
	svc        *Service
	visitorSvc *visitor.Service
	notifySvc  *notification.Service
	mailer     *mail.Sender
	cfg        *config.AppConfig
	log        *zap.Logger
}

func NewHandler(svc *Service, visitorSvc *visitor.Service, notifySvc *notification.Service, mailer *mail.Sender, cfg *config.AppConfig, log *zap.Logger) *Handler {
	return &Handler{svc: svc, visitorSvc: visitorSvc, notifySvc: notifySvc, mailer: mailer, cfg: cfg, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	quotes := rg.Group("/quotations")

	quotes.POST("", h.create)

	authed := quotes.Group("", authMW)
	authed.GET("", h.list)
	authed.PATCH("/:id/status", h.updateStatus)
	authed.DELETE("/:id", h.delete)
}

// create POST /quotations (public)
func (h *Handler) create(c *gin.Context) {
	var dto CreateQuotationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID, _ := visitor.SessionIDFromRequest(c)
	q, err := h.svc.Create(&dto, sessionID)
	if err != nil {
		if errors.Is(err, ErrUnknownServiceType) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	// Everything after persistence is best-effort.
	if sessionID != "" && h.visitorSvc != nil {
		if err := h.visitorSvc.RecordAction(sessionID, "quote_request", string(q.ServiceType)); err != nil && h.log != nil {
			h.log.Warn("conversion action failed", zap.Error(err))
		}
	}
	if h.notifySvc != nil {
		h.notifySvc.NotifyAsync(
			notification.TypeQuotation,
			fmt.Sprintf("New quote request from %s", q.Name),
			fmt.Sprintf("%s requested a quote for %s", q.Name, q.ServiceType),
			"/admin/quotations/"+q.ID,
		)
	}
	if h.mailer != nil {
		go func() {
			err := h.mailer.SendQuotationReceipt(q.Email, mail.QuotationReceiptData{
				SiteName:    h.cfg.SiteName,
				Name:        q.Name,
				ServiceType: string(q.ServiceType),
				Details:     q.Details,
			})
			if err != nil && h.log != nil {
				h.log.Warn("quotation receipt mail failed", zap.Error(err))
			}
		}()
	}

	response.Created(c, q)
}

// list GET /quotations  [auth]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(q, c.Query("status"))
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// updateStatus PATCH /quotations/:id/status  [auth]
func (h *Handler) updateStatus(c *gin.Context) {
	var dto UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	q, err := h.svc.UpdateStatus(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if q == nil {
		response.NotFoundMsg(c, "quotation not found")
		return
	}
	response.OK(c, q)
}

// delete DELETE /quotations/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
