// controllers/property_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"desteiger-backend/models"
	"desteiger-backend/services"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
)

type PropertyController struct {
	PropertySvc *services.PropertyService
}

func NewPropertyController(svc *services.PropertyService) *PropertyController {
	return &PropertyController{PropertySvc: svc}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// ListProperties handles GET /properties?type&status&page&limit.
func (ctrl *PropertyController) ListProperties(c *gin.Context) {
	filter := services.PropertyFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 0)

	items, pagination, err := ctrl.PropertySvc.List(filter, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       items,
		"pagination": pagination,
	})
}

// GetProperty handles GET /properties/:slug.
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	property, err := ctrl.PropertySvc.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, property)
}

// CreateProperty handles POST /admin/properties (admin-gated in routes).
func (ctrl *PropertyController) CreateProperty(c *gin.Context) {
	var payload models.Property
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	property, err := ctrl.PropertySvc.Create(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, property)
}

// UpdateProperty handles PATCH /admin/properties/:id with a partial body.
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid property id")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	// columns clients may touch; everything else is server-owned
	allowed := map[string]bool{
		"name": true, "description": true, "status": true,
		"sale_price": true, "reservation_fee": true, "parking_spaces": true,
	}
	for k := range updates {
		if !allowed[k] {
			delete(updates, k)
		}
	}
	if len(updates) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "no updatable fields in payload")
		return
	}

	property, err := ctrl.PropertySvc.Update(uint(id), updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, property)
}

// DeleteProperty handles DELETE /admin/properties/:id (soft delete).
func (ctrl *PropertyController) DeleteProperty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid property id")
		return
	}
	if err := ctrl.PropertySvc.Delete(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
