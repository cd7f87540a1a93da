package handlers

import (
	"errors"
	"net/http"
	"time"

	"crowdfix/internal/logger"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"
	"crowdfix/internal/services"
	"crowdfix/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActiveWindow is how recently a user must have logged in to be listed as active.
const ActiveWindow = 30 * time.Minute

type AuthHandler struct {
	userRepo     repositories.UserRepository
	tokenService *services.TokenService
	now          func() time.Time
}

func NewAuthHandler(userRepo repositories.UserRepository, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		tokenService: tokenService,
		now:          time.Now,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.userRepo.CreateUser(c.Request.Context(), &req); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		logger.Log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, err := h.tokenService.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Log.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	if err := h.userRepo.TouchLogin(ctx, user.ID, h.now()); err != nil {
		logger.Log.Warn("Failed to record login time",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil || user.SecurityQuestion != req.SecurityQuestion || !repositories.CheckSecurityAnswer(user, req.SecurityAnswer) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Security question or answer does not match"})
		return
	}

	if err := h.userRepo.UpdatePassword(ctx, user.ID, req.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) ActiveUsers(c *gin.Context) {
	users, err := h.userRepo.ActiveSince(c.Request.Context(), h.now().Add(-ActiveWindow))
	if err != nil {
		respondError(c, err, "Failed to list active users")
		return
	}

	out := make([]userRef, 0, len(users))
	for _, u := range users {
		out = append(out, userRef{ID: u.ID, Username: u.Username})
	}
	c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.GET("/active-users", auth, h.ActiveUsers)
	}
}
