package contact

import (
	"fmt"

	"github.com/aerovista/core/internal/config"
	"github.com/aerovista/core/internal/modules/notification"
	"github.com/aerovista/core/internal/modules/visitor"
	"github.com/aerovista/core/internal/pkg/mail"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactDTO is the public contact-form body.
type ContactDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// Handler forwards contact-form messages to the site inbox and notifies
// admins. Messages are not stored; the inbox is the system of record.
type Handler struct {
	visitorSvc *visitor.Service
	notifySvc  *notification.Service
	mailer     *mail.Sender
	cfg        *config.AppConfig
	log        *zap.Logger
}

func NewHandler(visitorSvc *visitor.Service, notifySvc *notification.Service, mailer *mail.Sender, cfg *config.AppConfig, log *zap.Logger) *Handler {
	return &Handler{visitorSvc: visitorSvc, notifySvc: notifySvc, mailer: mailer, cfg: cfg, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.submit)
}

// submit POST /contact (public)
func (h *Handler) submit(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	inbox := h.cfg.Mail.Inbox
	if inbox == "" {
		inbox = h.cfg.Mail.From
	}
	if h.mailer != nil && inbox != "" {
		go func() {
			err := h.mailer.SendContactNotify(inbox, mail.ContactNotifyData{
				SiteName: h.cfg.SiteName,
				Name:     dto.Name,
				Email:    dto.Email,
				Phone:    dto.Phone,
				Message:  dto.Message,
			})
			if err != nil && h.log != nil {
				h.log.Warn("contact mail failed", zap.Error(err))
			}
		}()
	}

	if h.notifySvc != nil {
		h.notifySvc.NotifyAsync(
			notification.TypeContact,
			fmt.Sprintf("New contact message from %s", dto.Name),
			dto.Message,
			"",
		)
	}

	if sessionID, ok := visitor.SessionIDFromRequest(c); ok && h.visitorSvc != nil {
		if err := h.visitorSvc.RecordAction(sessionID, "contact_form", dto.Email); err != nil && h.log != nil {
			h.log.Warn("conversion action failed", zap.Error(err))
		}
	}

	response.OK(c, gin.H{"sent": true})
}
