package newsletter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aerovista/core/internal/config"
	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/modules/notification"
	"github.com/aerovista/core/internal/modules/visitor"
	"github.com/aerovista/core/internal/pkg/mail"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrTokenNotFound     = errors.New("token not found")
)

// SubscribeDTO is the public subscribe body.
type SubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// Service owns subscriber persistence and the double-opt-in lifecycle.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Subscribe registers an email and returns the row carrying its verify/cancel
// token. Re-subscribing an unverified email reissues the same token.
func (s *Service) Subscribe(email, sessionID string) (*models.NewsletterModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.NewsletterModel
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Verified {
			return nil, ErrAlreadySubscribed
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := &models.NewsletterModel{
		Email:       email,
		CancelToken: strings.ReplaceAll(uuid.NewString(), "-", ""),
		SessionID:   sessionID,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Verify flips the subscriber to verified by token.
func (s *Service) Verify(token string) (*models.NewsletterModel, error) {
	var sub models.NewsletterModel
	if err := s.db.Where("cancel_token = ?", token).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if !sub.Verified {
		sub.Verified = true
		if err := s.db.Save(&sub).Error; err != nil {
			return nil, err
		}
	}
	return &sub, nil
}

// Unsubscribe removes the subscriber by token.
func (s *Service) Unsubscribe(token string) error {
	result := s.db.Where("cancel_token = ?", token).Delete(&models.NewsletterModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// List returns subscribers, newest first.
func (s *Service) List(q pagination.Query, verifiedOnly bool) ([]models.NewsletterModel, response.Pagination, error) {
	tx := s.db.Model(&models.NewsletterModel{}).Order("created_at DESC")
	if verifiedOnly {
		tx = tx.Where("verified = ?", true)
	}
	var subs []models.NewsletterModel
	pag, err := pagination.Paginate(tx, q, &subs)
	return subs, pag, err
}

// Delete removes a subscriber by ID (admin).
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.NewsletterModel{}, "id = ?", id).Error
}

// Handler handles newsletter HTTP requests.
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
	nl := rg.Group("/newsletter")

	nl.POST("/subscribe", h.subscribe)
	nl.GET("/verify", h.verify)
	nl.GET("/unsubscribe", h.unsubscribe)

	authed := nl.Group("", authMW)
	authed.GET("/subscribers", h.list)
	authed.DELETE("/subscribers/:id", h.delete)
}

// subscribe POST /newsletter/subscribe (public)
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID, _ := visitor.SessionIDFromRequest(c)
	sub, err := h.svc.Subscribe(dto.Email, sessionID)
	if err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	if sessionID != "" && h.visitorSvc != nil {
		if err := h.visitorSvc.RecordAction(sessionID, "newsletter_signup", sub.Email); err != nil && h.log != nil {
			h.log.Warn("conversion action failed", zap.Error(err))
		}
	}
	if h.mailer != nil {
		verifyURL := fmt.Sprintf("%s/api/newsletter/verify?token=%s",
			strings.TrimRight(h.cfg.WebURL, "/"), sub.CancelToken)
		go func() {
			err := h.mailer.SendSubscribeVerify(sub.Email, mail.SubscribeVerifyData{
				SiteName:  h.cfg.SiteName,
				VerifyURL: verifyURL,
			})
			if err != nil && h.log != nil {
				h.log.Warn("verify mail failed", zap.Error(err))
			}
		}()
	}

	response.Created(c, gin.H{"email": sub.Email, "verified": sub.Verified})
}

// verify GET /newsletter/verify?token= (public)
func (h *Handler) verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token is required")
		return
	}

	sub, err := h.svc.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			response.NotFoundMsg(c, "token not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	if h.notifySvc != nil {
		h.notifySvc.NotifyAsync(
			notification.TypeNewsletter,
			"New newsletter subscriber",
			sub.Email+" confirmed their subscription",
			"/admin/newsletter",
		)
	}
	response.OK(c, gin.H{"email": sub.Email, "verified": true})
}

// unsubscribe GET /newsletter/unsubscribe?token= (public)
func (h *Handler) unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token is required")
		return
	}

	if err := h.svc.Unsubscribe(token); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			response.NotFoundMsg(c, "token not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"unsubscribed": true})
}

// list GET /newsletter/subscribers  [auth]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	subs, pag, err := h.svc.List(q, c.Query("verified") == "true")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, subs, pag)
}

// delete DELETE /newsletter/subscribers/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
