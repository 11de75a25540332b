package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradementor/internal/models/request_models"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

type LevelTestController struct {
	levelTestService services.LevelTestService
}

func NewLevelTestController(levelTestService services.LevelTestService) *LevelTestController {
	return &LevelTestController{
		levelTestService: levelTestService,
	}
}

// Submit godoc
// @Summary Submit a level test attempt
// @Description Stores the answers and grades them asynchronously
// @Tags LevelTests
// @Accept json
// @Produce json
// @Param request body request_models.SubmitLevelTestRequest true "Submission payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /level-tests/submit [post]
func (l *LevelTestController) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.SubmitLevelTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	attemptID, err := l.levelTestService.SubmitAttempt(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"attempt_id": attemptID.String()}, "Level test submitted")
}

// ListMine godoc
// @Summary List the authenticated customer's attempts
// @Tags LevelTests
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /level-tests/me [get]
func (l *LevelTestController) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempts, err := l.levelTestService.ListMyAttempts(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, attempts, "Attempts fetched successfully")
}

// GetDetail godoc
// @Summary Get one attempt with per-question scores
// @Tags LevelTests
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /level-tests/{id} [get]
func (l *LevelTestController) GetDetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attemptID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := l.levelTestService.GetAttemptDetail(c.Request.Context(), userID, attemptID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Attempt fetched successfully")
}
