package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradementor/internal/models/request_models"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
	methodService  services.PaymentMethodService
}

func NewPaymentController(
	paymentService services.PaymentService,
	methodService services.PaymentMethodService,
) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		methodService:  methodService,
	}
}

// ListMyPayments godoc
// @Summary List the authenticated customer's payments
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/me [get]
func (p *PaymentController) ListMyPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	payments, err := p.paymentService.ListMine(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, payments, "Payments fetched successfully")
}

// ListAllPayments godoc
// @Summary List all payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/payments [get]
func (p *PaymentController) ListAllPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	payments, total, err := p.paymentService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"payments": payments, "total": total}, "Payments fetched successfully")
}

// RegisterPaymentMethod godoc
// @Summary Register a card for recurring billing
// @Description Exchanges the gateway auth result for a billing key
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.RegisterPaymentMethodRequest true "Registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment-methods [post]
func (p *PaymentController) RegisterPaymentMethod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.RegisterPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	method, err := p.methodService.Register(c.Request.Context(), userID,
		req.TxTID, req.AuthToken, req.MakePrimary)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, method, "Payment method registered")
}

// ListPaymentMethods godoc
// @Summary List the authenticated customer's payment methods
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment-methods [get]
func (p *PaymentController) ListPaymentMethods(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	methods, err := p.methodService.List(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, methods, "Payment methods fetched successfully")
}

// DeletePaymentMethod godoc
// @Summary Delete a payment method
// @Tags Payments
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment-methods/{id} [delete]
func (p *PaymentController) DeletePaymentMethod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	methodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := p.methodService.Delete(c.Request.Context(), userID, methodID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Payment method deleted")
}

// SetPrimaryPaymentMethod godoc
// @Summary Make a payment method the primary card
// @Tags Payments
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payment-methods/{id}/primary [post]
func (p *PaymentController) SetPrimaryPaymentMethod(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	methodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := p.methodService.SetPrimary(c.Request.Context(), userID, methodID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Primary payment method updated")
}
