package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config config.JWTConfig
	audit  *audit.Dispatcher
	log    *logrus.Logger
}

func NewAuthHandler(db *gorm.DB, cfg config.JWTConfig, audit *audit.Dispatcher, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: audit, log: log}
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		h.log.WithError(err).Error("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.audit.Dispatch(audit.Event{
			UserID: &user.ID,
			Actor:  "admin",
			Action: "login_failed",
			Entity: "user",
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: &user.ID,
		Actor:  "admin",
		Action: "login",
		Entity: "user",
	})

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(&user),
		"token": token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(&user)})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	expiry := h.config.Expiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(expiry).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.Secret))
}
