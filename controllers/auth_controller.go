package controllers

import (
	"net/http"
	"strings"

	"desteiger-backend/middleware"
	"desteiger-backend/models"
	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Register creates a customer profile. Admin roles are never assignable
// through this endpoint.
func (ctrl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	profile := models.Profile{
		Email:     email,
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Phone:     strings.TrimSpace(payload.Phone),
		Password:  string(hash),
		Role:      models.RoleCustomer,
	}
	if err := ctrl.DB.Create(&profile).Error; err != nil {
		if services.IsDuplicateKey(err) {
			utils.JSONError(c, http.StatusConflict, "email already registered")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}

	token, err := middleware.GenerateSessionToken(profile)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	var profile models.Profile
	if err := ctrl.DB.Where("email = ?", email).First(&profile).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.GenerateSessionToken(profile)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

// Me returns the authenticated profile (requires RequireAuth).
func (ctrl *AuthController) Me(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": actor})
}
