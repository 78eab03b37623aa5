package handlers

import (
	"net/http"
	"strings"

	"household-backend/database"
	"household-backend/models"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Icon     string `json:"icon"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string                 `json:"token"`
	Profile models.ProfileResponse `json:"profile"`
}

// POST /auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if strings.EqualFold(req.Name, models.UnassignedSentinel) {
		utils.BadRequest(c, "That name is reserved")
		return
	}

	var existing models.Profile
	if err := database.DB.Where("name = ? OR email = ?", req.Name, req.Email).First(&existing).Error; err == nil {
		utils.Conflict(c, "Name or email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "Failed to hash password")
		return
	}

	icon := req.Icon
	if icon == "" {
		icon = "🏠"
	}

	profile := models.Profile{
		Name:         req.Name,
		Email:        req.Email,
		Icon:         icon,
		PasswordHash: string(hashedPassword),
	}

	if err := database.DB.Create(&profile).Error; err != nil {
		utils.InternalError(c, "Failed to create profile")
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Name)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Registration successful", AuthResponse{
		Token:   token,
		Profile: profile.ToResponse(),
	})
}

// POST /auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var profile models.Profile
	if err := database.DB.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Name)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", AuthResponse{
		Token:   token,
		Profile: profile.ToResponse(),
	})
}
