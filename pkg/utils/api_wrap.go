package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	IsSuccess bool        `json:"isSuccess"`
	Code      int         `json:"code"`
	Message   string      `json:"message,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Result    interface{} `json:"result,omitempty"`
}

func RespondSuccess(c *gin.Context, result interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		IsSuccess: true,
		Code:      http.StatusOK,
		Message:   message,
		TraceID:   c.GetString("trace_id"),
		Result:    result,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		IsSuccess: false,
		Code:      code,
		Message:   message,
		TraceID:   c.GetString("trace_id"),
	})
}

// HandleServiceError maps domain errors onto the HTTP envelope.
// 404 absent entity, 409 state conflicts, 400 invalid transitions,
// 403 ownership mismatches, 502 gateway trouble, 500 everything else.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotBlocked),
		errors.Is(err, ErrSlotFull),
		errors.Is(err, ErrDuplicateReservation),
		errors.Is(err, ErrSubscriptionExists),
		errors.Is(err, ErrPlanAlreadyActive),
		errors.Is(err, ErrEmailTaken):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrNoActivePlan),
		errors.Is(err, ErrNoPaymentMethod),
		errors.Is(err, ErrCodeMismatch):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCred):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrGateway):
		RespondError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrDatabase):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
