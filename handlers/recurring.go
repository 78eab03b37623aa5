package handlers

import (
	"net/http"
	"regexp"

	"household-backend/database"
	"household-backend/models"
	"household-backend/services"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// POST /api/recurring-tasks
func CreateRecurringTask(c *gin.Context) {
	var req models.CreateRecurringTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !timeOfDayPattern.MatchString(req.TimeOfDay) {
		utils.BadRequest(c, "time_of_day must be HH:MM (24h)")
		return
	}

	task := models.RecurringTask{
		Title:     req.Title,
		Assignees: req.Assignees,
		Days:      req.Days,
		TimeOfDay: req.TimeOfDay,
	}

	if err := database.DB.Create(&task).Error; err != nil {
		utils.InternalError(c, "Failed to create recurring task")
		return
	}

	services.GetRealtime().Publish("recurring_tasks", "INSERT", task.ID)
	utils.SuccessResponse(c, http.StatusCreated, "Recurring task created", task)
}

// GET /api/recurring-tasks
func GetRecurringTasks(c *gin.Context) {
	var tasks []models.RecurringTask
	if err := database.DB.Order("created_at ASC").Find(&tasks).Error; err != nil {
		utils.InternalError(c, "Failed to load recurring tasks")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tasks)
}

// PUT /api/recurring-tasks/:id
func UpdateRecurringTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid task ID")
		return
	}

	var req models.UpdateRecurringTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var task models.RecurringTask
	if err := database.DB.First(&task, "id = ?", taskID).Error; err != nil {
		utils.NotFound(c, "Recurring task not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Assignees != nil {
		updates["assignees"] = pq.StringArray(req.Assignees)
	}
	if req.Days != nil {
		updates["days"] = pq.StringArray(req.Days)
	}
	if req.TimeOfDay != "" {
		if !timeOfDayPattern.MatchString(req.TimeOfDay) {
			utils.BadRequest(c, "time_of_day must be HH:MM (24h)")
			return
		}
		updates["time_of_day"] = req.TimeOfDay
	}

	if err := database.DB.Model(&task).Updates(updates).Error; err != nil {
		utils.InternalError(c, "Failed to update recurring task")
		return
	}

	services.GetRealtime().Publish("recurring_tasks", "UPDATE", task.ID)
	utils.SuccessResponse(c, http.StatusOK, "Recurring task updated", task)
}

// DELETE /api/recurring-tasks/:id
func DeleteRecurringTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid task ID")
		return
	}

	if err := database.DB.Delete(&models.RecurringTask{}, "id = ?", taskID).Error; err != nil {
		utils.InternalError(c, "Failed to delete recurring task")
		return
	}

	services.GetRealtime().Publish("recurring_tasks", "DELETE", taskID)
	utils.SuccessResponse(c, http.StatusOK, "Recurring task deleted", nil)
}
