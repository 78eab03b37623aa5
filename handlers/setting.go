package handlers

import (
	"net/http"
	"strconv"

	"household-backend/config"
	"household-backend/database"
	"household-backend/models"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GET /api/settings/max-tasks
func GetMaxTasksSetting(c *gin.Context) {
	value := config.AppConfig.DefaultMaxTasks

	var setting models.HouseholdSetting
	if err := database.DB.First(&setting, "key = ?", models.SettingMaxTasks).Error; err == nil {
		if n, perr := strconv.Atoi(setting.Value); perr == nil {
			value = n
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"max_tasks": value})
}

// PUT /api/settings/max-tasks
func UpdateMaxTasksSetting(c *gin.Context) {
	var req models.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	n, err := strconv.Atoi(req.Value)
	if err != nil || n < 1 {
		utils.BadRequest(c, "max_tasks must be a positive integer")
		return
	}

	setting := models.HouseholdSetting{Key: models.SettingMaxTasks, Value: req.Value}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		utils.InternalError(c, "Failed to save setting")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Setting saved", gin.H{"max_tasks": n})
}
