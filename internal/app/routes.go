package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aerovista/core/internal/middleware"
	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/modules/analytics"
	"github.com/aerovista/core/internal/modules/auth"
	"github.com/aerovista/core/internal/modules/blog"
	"github.com/aerovista/core/internal/modules/chat"
	"github.com/aerovista/core/internal/modules/contact"
	"github.com/aerovista/core/internal/modules/newsletter"
	"github.com/aerovista/core/internal/modules/notification"
	"github.com/aerovista/core/internal/modules/portfolio"
	"github.com/aerovista/core/internal/modules/quotation"
	"github.com/aerovista/core/internal/modules/quotebot"
	"github.com/aerovista/core/internal/modules/upload"
	"github.com/aerovista/core/internal/modules/visitor"
	"github.com/aerovista/core/internal/pkg/mail"
	pkgredis "github.com/aerovista/core/internal/pkg/redis"
	"github.com/aerovista/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	cfg := a.cfg
	logger := a.logger
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Shared services
	mailer := mail.New(cfg.Mail)
	visitorSvc := visitor.NewService(db, logger)
	a.visitors = visitorSvc

	authSvc := auth.NewService(db)
	chatSvc := chat.NewService(db)

	hub := chat.NewHub(chatSvc, rc, logger, authSvc.ValidateToken)
	a.hub = hub

	notifySvc := notification.NewService(db, hub, logger)

	// Chat messages from visitors fan out to admin notifications when no
	// admin is connected to watch the dashboard live.
	hub.OnVisitorMessage = func(msg *models.ChatMessageModel) {
		notifySvc.NotifyAsync(
			notification.TypeChat,
			fmt.Sprintf("New chat message from %s", msg.SenderName),
			msg.Text,
			"/admin/chat/"+msg.ConversationID,
		)
	}

	// Page-view tracking wraps everything outside /api.
	r.Use(visitor.Middleware(visitorSvc, logger))

	// Socket.IO endpoint and uploaded media live at the root.
	r.Any("/socket.io/*any", gin.WrapH(hub.Handler()))

	uploadHandler := upload.NewHandler(cfg)
	uploadHandler.ServeStatic(r)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw(), cfg.RateLimit))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)

	// Visitor conversions and dashboard analytics
	visitor.NewHandler(visitorSvc).RegisterRoutes(api)
	analytics.NewHandler(analytics.NewService(db)).RegisterRoutes(api, authMW)

	// Content
	blog.NewHandler(blog.NewService(db)).RegisterRoutes(api, authMW)
	portfolio.NewHandler(portfolio.NewService(db)).RegisterRoutes(api, authMW)

	// Lead capture
	quotation.NewHandler(quotation.NewService(db), visitorSvc, notifySvc, mailer, cfg, logger).RegisterRoutes(api, authMW)
	newsletter.NewHandler(newsletter.NewService(db), visitorSvc, notifySvc, mailer, cfg, logger).RegisterRoutes(api, authMW)
	contact.NewHandler(visitorSvc, notifySvc, mailer, cfg, logger).RegisterRoutes(api)
	quotebot.NewHandler().RegisterRoutes(api)

	// Admin notifications
	notification.NewHandler(notifySvc).RegisterRoutes(api, authMW)

	// Uploads
	uploadHandler.RegisterRoutes(api, authMW)
}
