package handlers

import (
	"net/http"
	"strings"

	"household-backend/database"
	"household-backend/models"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// POST /webhooks/payment — subscription status upsert keyed by (email, plan)
func PaymentWebhook(c *gin.Context) {
	var req models.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	subscription := models.Subscription{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Plan:   req.Plan,
		Status: req.Status,
	}

	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "plan"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&subscription).Error; err != nil {
		utils.InternalError(c, "Failed to record subscription")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription recorded", nil)
}
