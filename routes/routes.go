package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"desteiger-backend/controllers"
	"desteiger-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every endpoint. Mutating and privileged routes run behind
// RequireAuth (+ RequireManager for the back-office); the webhook and the
// public catalog stay open.
func SetupRouter(
	db *gorm.DB,
	pc *controllers.PropertyController,
	rc *controllers.ReservationController,
	pay *controllers.PaymentController,
	ic *controllers.InquiryController,
	ac *controllers.AdminController,
	authc *controllers.AuthController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog + checkout
	properties := r.Group("/properties")
	{
		properties.GET("", pc.ListProperties)
		properties.GET("/:slug", pc.GetProperty)
	}

	r.POST("/reservations", middleware.OptionalAuth(db), rc.CreateReservation)
	r.POST("/reservations/:id/retry-payment", middleware.OptionalAuth(db), rc.RetryPayment)
	r.POST("/inquiries", ic.CreateInquiry)

	// Payments
	r.POST("/create-payment-intent", pay.CreatePaymentIntent)
	r.POST("/stripe/webhook", pay.HandleWebhook)

	// Sessions
	auth := r.Group("/auth")
	{
		auth.POST("/register", authc.Register)
		auth.POST("/login", authc.Login)
		auth.GET("/me", middleware.RequireAuth(db), authc.Me)
	}

	// Logged-in customers
	my := r.Group("/my", middleware.RequireAuth(db))
	{
		my.GET("/reservations", rc.MyReservations)
	}

	// Back-office: authenticated + admin/super_admin only
	admin := r.Group("", middleware.RequireAuth(db), middleware.RequireManager())
	{
		admin.GET("/reservations", rc.ListReservations)
		admin.GET("/reservations/:id", rc.GetReservation)

		admin.GET("/admin/dashboard", ac.GetDashboard)

		admin.PATCH("/admin/reservations/:id/status", rc.UpdateReservationStatus)

		admin.GET("/admin/inquiries", ic.ListInquiries)
		admin.PATCH("/admin/inquiries/:id/status", ic.UpdateInquiryStatus)

		admin.POST("/admin/properties", pc.CreateProperty)
		admin.PATCH("/admin/properties/:id", pc.UpdateProperty)
		admin.DELETE("/admin/properties/:id", pc.DeleteProperty)
	}

	return r
}
