package controllers

import (
	"errors"
	"net/http"

	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
)

// statusForError maps service sentinel errors onto the HTTP taxonomy:
// validation 400, not found 404, conflict/invalid transition 409, gateway 502.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrInquiryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPropertyUnavailable), errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	utils.JSONError(c, statusForError(err), err.Error())
}
