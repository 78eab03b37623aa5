package handlers

import (
	"errors"
	"net/http"

	"household-backend/models"
	"household-backend/services"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/cleaning
func GetCleaningOverview(c *gin.Context) {
	overview, err := services.GetCleaningService().Load()
	if err != nil {
		utils.InternalError(c, "Failed to load cleaning checklist")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", overview)
}

// POST /api/cleaning/tasks
func AddCleaningTask(c *gin.Context) {
	var req models.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	task, err := services.GetCleaningService().AddTask(req.Description, req.Comment)
	if err != nil {
		if errors.Is(err, services.ErrTaskLimit) {
			utils.BadRequest(c, "Task limit reached — raise the max tasks setting to add more")
			return
		}
		utils.InternalError(c, "Failed to add task")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Task added", task)
}

// POST /api/cleaning/tasks/:id/toggle
func ToggleCleaningTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid task ID")
		return
	}

	overview, err := services.GetCleaningService().ToggleTask(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			utils.NotFound(c, "Task not found")
			return
		}
		utils.InternalError(c, "Failed to toggle task")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task toggled", overview)
}

// PUT /api/cleaning/tasks/:id
func UpdateCleaningTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid task ID")
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := services.GetCleaningService().UpdateTask(taskID, req.Description, req.Comment); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			utils.NotFound(c, "Task not found")
			return
		}
		utils.InternalError(c, "Failed to update task")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task updated", nil)
}

// DELETE /api/cleaning/tasks/:id
func DeleteCleaningTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid task ID")
		return
	}

	if err := services.GetCleaningService().DeleteTask(taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			utils.NotFound(c, "Task not found")
			return
		}
		utils.InternalError(c, "Failed to delete task")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task deleted", nil)
}

// POST /api/cleaning/assignee
func ChangeCleaningAssignee(c *gin.Context) {
	var req models.ChangeAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := services.GetCleaningService().ChangeAssignee(req.Assignee); err != nil {
		switch {
		case errors.Is(err, services.ErrHandoffThreshold):
			utils.BadRequest(c, "Checklist must be at least 75% complete before handing off")
		case errors.Is(err, services.ErrUnknownAssignee):
			utils.BadRequest(c, "Assignee must be an existing profile or Unassigned")
		default:
			utils.InternalError(c, "Failed to change assignee")
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignee changed", nil)
}
