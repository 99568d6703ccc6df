// controllers/reservation_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"desteiger-backend/middleware"
	"desteiger-backend/models"
	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CustomerInfoPayload struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Company   string `json:"company"`
}

// CreateReservationRequest mirrors what the checkout form posts. The client
// also sends paymentIntentId, totalAmount, status and createdAt; those are
// deliberately unbound. Pricing, status and the intent binding are
// server-assigned.
type CreateReservationRequest struct {
	PropertySlug string              `json:"propertySlug"`
	PropertyID   uint                `json:"propertyId"`
	UnitNumber   string              `json:"unitNumber"`
	CustomerInfo CustomerInfoPayload `json:"customerInfo" binding:"required"`

	TermsAccepted bool           `json:"termsAccepted"`
	Preferences   datatypes.JSON `json:"preferences"`
	SignatureData string         `json:"signatureData"`
	IntendedUse   string         `json:"intendedUse"`
	Notes         string         `json:"notes"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	ReservationSvc *services.ReservationService
	PropertySvc    *services.PropertyService
}

func NewReservationController(rsvc *services.ReservationService, psvc *services.PropertyService) *ReservationController {
	return &ReservationController{ReservationSvc: rsvc, PropertySvc: psvc}
}

// CreateReservation handles POST /reservations: create the pending hold,
// request a payment intent and return the client secret for the payment form.
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var payload CreateReservationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	propertyID := payload.PropertyID
	if propertyID == 0 && strings.TrimSpace(payload.PropertySlug) != "" {
		property, err := ctrl.PropertySvc.GetBySlug(payload.PropertySlug)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		propertyID = property.ID
	}

	input := services.ReservationInput{
		PropertyID:    propertyID,
		FirstName:     payload.CustomerInfo.FirstName,
		LastName:      payload.CustomerInfo.LastName,
		Email:         payload.CustomerInfo.Email,
		Phone:         payload.CustomerInfo.Phone,
		Company:       payload.CustomerInfo.Company,
		TermsAccepted: payload.TermsAccepted,
		Preferences:   payload.Preferences,
		SignatureData: payload.SignatureData,
		IntendedUse:   payload.IntendedUse,
		Notes:         payload.Notes,
	}
	if actor, ok := middleware.Actor(c); ok {
		input.ProfileID = &actor.ID
	}

	reservation, clientSecret, err := ctrl.ReservationSvc.Checkout(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrGatewayUnavailable) {
			// the hold exists and stays pending; the client can retry payment
			c.JSON(http.StatusBadGateway, gin.H{
				"error":       err.Error(),
				"reservation": reservation,
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"reservation":  reservation,
		"clientSecret": clientSecret,
	})
}

// ListReservations handles GET /reservations?status (admin-gated in routes).
func (ctrl *ReservationController) ListReservations(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))

	var (
		reservations []models.Reservation
		err          error
	)
	if status != "" {
		reservations, err = ctrl.ReservationSvc.ListByStatus(status)
	} else {
		reservations, err = ctrl.ReservationSvc.ListAll()
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// GetReservation handles GET /reservations/:id (admin-gated in routes).
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	reservation, err := ctrl.ReservationSvc.Get(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// MyReservations handles GET /my/reservations for the logged-in customer.
func (ctrl *ReservationController) MyReservations(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	reservations, err := ctrl.ReservationSvc.ListByCustomer(actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// UpdateReservationStatus handles PATCH /admin/reservations/:id/status, the
// admin review step (paid -> confirmed, non-terminal -> cancelled, ...).
func (ctrl *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var payload UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	reservation, err := ctrl.ReservationSvc.UpdateStatus(uint(id), payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// RetryPayment handles POST /reservations/:id/retry-payment: re-enters
// pending from payment_failed with a fresh intent. The route also serves
// guests finishing an anonymous checkout, so the full reservation (customer
// name, contact details, signature) is only returned to the owning profile or
// an admin; everyone else gets the payment handle and nothing personal.
func (ctrl *ReservationController) RetryPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, clientSecret, err := ctrl.ReservationSvc.RetryPayment(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	actor, ok := middleware.Actor(c)
	owner := ok && reservation.ProfileID != nil && *reservation.ProfileID == actor.ID
	if ok && (owner || actor.Role.CanManage()) {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"reservation":  reservation,
			"clientSecret": clientSecret,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reservation": gin.H{
			"id":                   reservation.ID,
			"reservationNumber":    reservation.ReservationNumber,
			"status":               reservation.Status,
			"reservationExpiresAt": reservation.ReservationExpiresAt,
		},
		"clientSecret": clientSecret,
	})
}
