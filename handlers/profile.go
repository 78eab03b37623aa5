package handlers

import (
	"net/http"
	"strings"

	"household-backend/database"
	"household-backend/models"
	"household-backend/services"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpdateFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// GET /api/profiles
func GetProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := database.DB.Order("name ASC").Find(&profiles).Error; err != nil {
		utils.InternalError(c, "Failed to load profiles")
		return
	}

	responses := make([]models.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, p.ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/profiles/me
func GetProfile(c *gin.Context) {
	profileID := utils.GetCurrentProfileID(c)

	var profile models.Profile
	if err := database.DB.First(&profile, "id = ?", profileID).Error; err != nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", profile.ToResponse())
}

// PUT /api/profiles/me
func UpdateProfile(c *gin.Context) {
	profileID := utils.GetCurrentProfileID(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var profile models.Profile
	if err := database.DB.First(&profile, "id = ?", profileID).Error; err != nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" && !strings.EqualFold(req.Name, models.UnassignedSentinel) {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.WhatsappNumber != "" {
		updates["whatsapp_number"] = req.WhatsappNumber
	}

	if err := database.DB.Model(&profile).Updates(updates).Error; err != nil {
		utils.InternalError(c, "Failed to update profile")
		return
	}

	services.GetRealtime().Publish("profiles", "UPDATE", profile.ID)
	utils.SuccessResponse(c, http.StatusOK, "Profile updated", profile.ToResponse())
}

// PUT /api/profiles/me/fcm-token
func UpdateFCMToken(c *gin.Context) {
	profileID := utils.GetCurrentProfileID(c)

	var req UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Model(&models.Profile{}).Where("id = ?", profileID).Update("fcm_token", req.Token).Error; err != nil {
		utils.InternalError(c, "Failed to update token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token updated", nil)
}

// DELETE /api/profiles/:id
//
// Profiles can be deleted while still referenced by name from bills and the
// progress record; consumers re-validate those names on load.
func DeleteProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid profile ID")
		return
	}

	var profile models.Profile
	if err := database.DB.First(&profile, "id = ?", profileID).Error; err != nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	if err := database.DB.Delete(&profile).Error; err != nil {
		utils.InternalError(c, "Failed to delete profile")
		return
	}

	services.GetRealtime().Publish("profiles", "DELETE", profile.ID)
	utils.SuccessResponse(c, http.StatusOK, "Profile deleted", nil)
}
