// controllers/payment_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateIntentRequest struct {
	Amount   int64             `json:"amount" binding:"required"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// CreatePaymentIntent handles POST /create-payment-intent. Amount is in the
// smallest currency unit (cents).
func (ctrl *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var payload CreateIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: amount is required")
		return
	}

	intent, err := ctrl.PaymentSvc.CreateIntent(c.Request.Context(), payload.Amount, payload.Currency, payload.Metadata)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": intent.ClientSecret})
}

// HandleWebhook handles POST /stripe/webhook. The raw body is verified
// against the stripe-signature header before anything is parsed or mutated;
// an unverified event is a 400 and touches nothing. Verified events always
// answer 200 {received: true} (even no-ops) so the processor stops
// redelivering.
func (ctrl *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read webhook body")
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	event, err := ctrl.PaymentSvc.VerifyWebhook(payload, sigHeader)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			log.Printf("webhook: signature verification failed: %v", err)
			utils.JSONError(c, http.StatusBadRequest, "invalid webhook signature")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if err := ctrl.PaymentSvc.ProcessEvent(event); err != nil {
		// a genuine processing failure: non-2xx so the processor redelivers
		log.Printf("webhook: processing event %s failed: %v", event.ID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to process event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
