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

// POST /api/bills
func CreateBill(c *gin.Context) {
	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	bill, err := services.GetBillService().Create(req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Bill created", bill)
}

// GET /api/bills
func GetBills(c *gin.Context) {
	bills, err := services.GetBillService().List()
	if err != nil {
		utils.InternalError(c, "Failed to load bills")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", bills)
}

// GET /api/bills/:id
func GetBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := services.GetBillService().Get(billID)
	if err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			utils.NotFound(c, "Bill not found")
			return
		}
		utils.InternalError(c, "Failed to load bill")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", bill)
}

// PUT /api/bills/:id
func UpdateBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	var req models.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	bill, err := services.GetBillService().Update(billID, req)
	if err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			utils.NotFound(c, "Bill not found")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bill updated", bill)
}

// POST /api/bills/:id/toggle
func ToggleBillStatus(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := services.GetBillService().ToggleStatus(billID)
	if err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			utils.NotFound(c, "Bill not found")
			return
		}
		utils.InternalError(c, "Failed to toggle bill status")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bill status toggled", bill)
}

// DELETE /api/bills/:id
func DeleteBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := services.GetBillService().Delete(billID); err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			utils.NotFound(c, "Bill not found")
			return
		}
		utils.InternalError(c, "Failed to delete bill")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bill deleted", nil)
}
