package visitor

import (
	"errors"

	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler exposes the conversion-action endpoint to the frontend.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analytics/action", h.recordAction)
}

type actionBody struct {
	Action  string `json:"action" binding:"required"`
	Details string `json:"details"`
}

func (h *Handler) recordAction(c *gin.Context) {
	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID, ok := SessionIDFromRequest(c)
	if !ok {
		response.BadRequest(c, "no active session")
		return
	}

	if err := h.svc.RecordAction(sessionID, body.Action, body.Details); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundMsg(c, "session not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"recorded": true})
}
