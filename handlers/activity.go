package handlers

import (
	"net/http"

	"household-backend/database"
	"household-backend/models"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/activity — household-wide audit feed
func GetActivity(c *gin.Context) {
	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
