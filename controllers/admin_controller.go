package controllers

import (
	"net/http"

	"desteiger-backend/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	DashboardSvc *services.DashboardService
}

func NewAdminController(svc *services.DashboardService) *AdminController {
	return &AdminController{DashboardSvc: svc}
}

// GetDashboard handles GET /admin/dashboard. Role gating happens in the
// route group middleware; by the time we get here the actor is an admin.
func (ctrl *AdminController) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.DashboardSvc.GetDashboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":         dashboard.Statistics,
		"propertyBreakdown":  dashboard.PropertyBreakdown,
		"statusBreakdown":    dashboard.StatusBreakdown,
		"recentReservations": dashboard.RecentReservations,
		"recentInquiries":    dashboard.RecentInquiries,
	})
}
