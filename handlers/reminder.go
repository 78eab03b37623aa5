package handlers

import (
	"net/http"
	"time"

	"household-backend/services"
	"household-backend/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/reminders/run — manual trigger for the reminder scan
func RunReminders(c *gin.Context) {
	notified, err := services.GetReminderService().RunOnce(time.Now())
	if err != nil {
		utils.InternalError(c, "Reminder run failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reminder run complete", gin.H{"bills_notified": notified})
}
