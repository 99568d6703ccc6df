package controllers

import (
	"net/http"
	"strconv"

	"desteiger-backend/models"
	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateInquiryRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	PropertyID *uint  `json:"propertyId"`
	Subject    string `json:"subject"`
	Message    string `json:"message" binding:"required"`
}

type UpdateInquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type InquiryController struct {
	InquirySvc *services.InquiryService
}

func NewInquiryController(svc *services.InquiryService) *InquiryController {
	return &InquiryController{InquirySvc: svc}
}

// CreateInquiry handles the public contact form, POST /inquiries.
func (ctrl *InquiryController) CreateInquiry(c *gin.Context) {
	var payload CreateInquiryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	inquiry, err := ctrl.InquirySvc.Create(models.Inquiry{
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Email:      payload.Email,
		Phone:      payload.Phone,
		Company:    payload.Company,
		PropertyID: payload.PropertyID,
		Subject:    payload.Subject,
		Message:    payload.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, inquiry)
}

// ListInquiries handles GET /admin/inquiries?status.
func (ctrl *InquiryController) ListInquiries(c *gin.Context) {
	inquiries, err := ctrl.InquirySvc.List(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

// UpdateInquiryStatus handles PATCH /admin/inquiries/:id/status.
func (ctrl *InquiryController) UpdateInquiryStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	var payload UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	inquiry, err := ctrl.InquirySvc.UpdateStatus(uint(id), payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inquiry)
}
