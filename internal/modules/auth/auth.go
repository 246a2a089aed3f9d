package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/aerovista/core/internal/middleware"
	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/jwt"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenTTL is the JWT lifetime. Every successful /me call slides it by
// reissuing a fresh token in the response header.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrAlreadyRegistered = errors.New("an admin account already exists")
)

// LoginDTO is the login request body.
type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterDTO is the one-time setup body.
type RegisterDTO struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ChangePasswordDTO is the password-change body.
type ChangePasswordDTO struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// Service owns admin accounts and credentials.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login verifies credentials and issues a JWT.
func (s *Service) Login(email, password, ip string) (string, *models.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u models.UserModel
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrBadCredentials
	}

	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": ip,
	}).Error

	token, err := jwt.Sign(u.ID, TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// Register creates the first admin account. Once any admin exists the
// endpoint is closed.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.UserModel{
		Name:         dto.Name,
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash: string(hash),
	}
	if err := s.db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID loads a user, nil when missing.
func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *Service) ChangePassword(id, oldPwd, newPwd string) error {
	u, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPwd)); err != nil {
		return ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(u).Update("password", string(hash)).Error
}

// ValidateToken reports whether a raw token authenticates an admin. The chat
// hub uses this for socket handshakes.
func (s *Service) ValidateToken(raw string) bool {
	claims, err := middleware.ValidateToken(raw)
	if err != nil {
		return false
	}
	u, err := s.GetByID(claims.UserID)
	return err == nil && u != nil
}

// Handler handles auth HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/register", h.register)

	authed := g.Group("", authMW)
	authed.GET("/me", h.me)
	authed.PUT("/password", h.changePassword)
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, u, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"token": token,
		"user":  u,
	})
}

// register POST /auth/register (open only until the first admin exists)
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			response.Forbidden(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, u)
}

// me GET /auth/me  [auth]
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c)
		return
	}

	// Sliding expiry: hand back a fresh token on every authenticated call.
	if token, err := jwt.Sign(u.ID, TokenTTL); err == nil {
		c.Header("X-Refresh-Token", token)
	}
	response.OK(c, u)
}

// changePassword PUT /auth/password  [auth]
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"changed": true})
}
