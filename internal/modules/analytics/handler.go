package analytics

import (
	"strconv"
	"time"

	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler exposes dashboard aggregates to admin.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics", authMW)
	g.GET("/overview", h.overview)
	g.GET("/countries", h.countries)
	g.GET("/pages", h.pages)
	g.GET("/referrers", h.referrers)
	g.GET("/devices", h.devices)
	g.GET("/realtime", h.realtime)
	g.GET("/timeline", h.timeline)
}

func sinceParam(c *gin.Context) (Period, time.Time) {
	period, lookback := ParsePeriod(c.Query("period"))
	return period, time.Now().Add(-lookback)
}

func limitParam(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || v < 1 {
		return 10
	}
	if v > 100 {
		return 100
	}
	return v
}

func (h *Handler) overview(c *gin.Context) {
	period, since := sinceParam(c)
	overview, err := h.svc.GetOverview(since)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"period": period, "overview": overview})
}

func (h *Handler) countries(c *gin.Context) {
	_, since := sinceParam(c)
	rows, err := h.svc.GetCountries(since, limitParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) pages(c *gin.Context) {
	_, since := sinceParam(c)
	rows, err := h.svc.GetPages(since, limitParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) referrers(c *gin.Context) {
	_, since := sinceParam(c)
	rows, err := h.svc.GetReferrers(since, limitParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) devices(c *gin.Context) {
	_, since := sinceParam(c)
	rows, err := h.svc.GetDevices(since, limitParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) realtime(c *gin.Context) {
	cards, err := h.svc.GetRealtime()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": len(cards), "visitors": cards})
}

func (h *Handler) timeline(c *gin.Context) {
	period, since := sinceParam(c)
	points, err := h.svc.GetTimeline(since)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"period": period, "timeline": points})
}
