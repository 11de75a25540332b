package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradementor/internal/models/request_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

type ConsultationController struct {
	consultationService services.ConsultationService
}

func NewConsultationController(consultationService services.ConsultationService) *ConsultationController {
	return &ConsultationController{
		consultationService: consultationService,
	}
}

// GetAvailability godoc
// @Summary List slot availability for a day
// @Tags Consultations
// @Produce json
// @Param date query string true "Date (yyyy-mm-dd)"
// @Success 200 {object} utils.APIResponse
// @Router /consultations/availability [get]
func (ct *ConsultationController) GetAvailability(c *gin.Context) {
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd")
		return
	}

	slots, err := ct.consultationService.GetDailyAvailability(c.Request.Context(), date)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, slots, "Availability fetched successfully")
}

// Create godoc
// @Summary Reserve a consultation slot
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body request_models.CreateConsultationRequest true "Reservation payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /consultations [post]
func (ct *ConsultationController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd")
		return
	}

	id, err := ct.consultationService.CreateReservation(c.Request.Context(), userID, date, req.Time)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": id.String()}, "Consultation reserved")
}

// Update godoc
// @Summary Move a reservation to another slot
// @Tags Consultations
// @Accept json
// @Produce json
// @Param id path string true "Consultation ID"
// @Param request body request_models.UpdateConsultationRequest true "Reschedule payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /consultations/{id} [put]
func (ct *ConsultationController) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	consultationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req request_models.UpdateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	newDate, err := utils.ParseDate(req.NewDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd")
		return
	}

	id, err := ct.consultationService.UpdateReservation(c.Request.Context(),
		userID, consultationID, newDate, req.NewTime)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": id.String()}, "Consultation rescheduled")
}

// Delete godoc
// @Summary Cancel a reservation
// @Tags Consultations
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /consultations/{id} [delete]
func (ct *ConsultationController) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	consultationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ct.consultationService.DeleteReservation(c.Request.Context(), userID, consultationID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Consultation cancelled")
}

// GetMine godoc
// @Summary List the authenticated customer's reservations
// @Tags Consultations
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /consultations/me [get]
func (ct *ConsultationController) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	consultations, err := ct.consultationService.GetMyReservations(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := make([]response_models.ConsultationResponse, 0, len(consultations))
	for _, cons := range consultations {
		result = append(result, response_models.ConsultationResponse{
			ID:          cons.ID.String(),
			Date:        utils.FormatDate(cons.ConsultationDate),
			Time:        cons.ConsultationTime,
			IsProcessed: cons.IsProcessed,
		})
	}

	utils.RespondSuccess(c, result, "Consultations fetched successfully")
}

// BlockSlot godoc
// @Summary Close a slot for bookings
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body request_models.BlockSlotRequest true "Block payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/consultations/blocks [post]
func (ct *ConsultationController) BlockSlot(c *gin.Context) {
	var req request_models.BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd")
		return
	}

	if err := ct.consultationService.BlockSlot(c.Request.Context(), date, req.Time); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Slot blocked")
}

// UnblockSlot godoc
// @Summary Reopen a blocked slot
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body request_models.BlockSlotRequest true "Unblock payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/consultations/blocks [delete]
func (ct *ConsultationController) UnblockSlot(c *gin.Context) {
	var req request_models.BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd")
		return
	}

	if err := ct.consultationService.UnblockSlot(c.Request.Context(), date, req.Time); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Slot unblocked")
}
