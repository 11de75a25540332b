package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/request_models"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionController(subscriptionService services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// Create godoc
// @Summary Subscribe to the active plan
// @Description Creates the subscription and charges the first payment immediately
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CreateSubscriptionRequest true "Subscription payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions [post]
func (s *SubscriptionController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	planID, _ := uuid.Parse(req.PlanID)
	methodID, _ := uuid.Parse(req.PaymentMethodID)

	sub, err := s.subscriptionService.CreateWithFirstPayment(c.Request.Context(), userID, planID, methodID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription created successfully")
}

// GetMine godoc
// @Summary Get the authenticated customer's subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/me [get]
func (s *SubscriptionController) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.GetMine(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// Cancel godoc
// @Summary Cancel the authenticated customer's subscription
// @Description Billing stops at the next cycle; the paid period stays usable
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.CancelSubscriptionRequest true "Cancellation payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/cancel [post]
func (s *SubscriptionController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := s.subscriptionService.Cancel(c.Request.Context(), userID, req.Reason); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription cancelled")
}

// UpdateStatus godoc
// @Summary Override a subscription status
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param request body request_models.UpdateSubscriptionStatusRequest true "Status payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/subscriptions/{id}/status [patch]
func (s *SubscriptionController) UpdateStatus(c *gin.Context) {
	subID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req request_models.UpdateSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	err := s.subscriptionService.UpdateStatus(c.Request.Context(), subID,
		db_models.SubscriptionStatus(req.Status))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription status updated")
}
