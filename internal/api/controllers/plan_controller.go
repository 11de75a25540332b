package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradementor/internal/models/request_models"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

type PlanController struct {
	planService services.PlanService
}

func NewPlanController(planService services.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// GetPlans godoc
// @Summary List subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (p *PlanController) GetPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// CreatePlan godoc
// @Summary Create a subscription plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Plan payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans [post]
func (p *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := p.planService.CreatePlan(c.Request.Context(),
		req.Code, req.Name, req.Description, req.Price, req.Currency)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan created successfully")
}

// ActivatePlan godoc
// @Summary Activate a subscription plan
// @Description Makes this plan the single active plan used for billing
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/plans/{id}/activate [post]
func (p *PlanController) ActivatePlan(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := p.planService.ActivatePlan(c.Request.Context(), planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan activated successfully")
}
