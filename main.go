package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"desteiger-backend/config"
	"desteiger-backend/controllers"
	"desteiger-backend/routes"
	"desteiger-backend/services"
	"desteiger-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	// Required Stripe keys (fatal if missing: checkout cannot work without them)
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Fatal("❌ ERROR: STRIPE_SECRET_KEY environment variable is not set. Cannot initialize payment gateway.")
	}
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("❌ ERROR: STRIPE_WEBHOOK_SECRET environment variable is not set. Cannot verify webhooks.")
	}
	log.Println("✅ Stripe keys detected.")

	// Connect database (config.ConnectDatabase sets config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Payment gateway
	gatewayTimeout := time.Duration(utils.EnvInt64OrDefault("STRIPE_TIMEOUT_SECONDS", 15)) * time.Second
	gateway := services.NewStripeGateway(stripeKey, webhookSecret, gatewayTimeout)

	// Initialize services
	propertyService := services.NewPropertyService(db)
	reservationService := services.NewReservationService(db, gateway)
	paymentService := services.NewPaymentService(db, gateway)
	inquiryService := services.NewInquiryService(db)
	dashboardService := services.NewDashboardService(db)

	// Initialize controllers
	propertyController := controllers.NewPropertyController(propertyService)
	reservationController := controllers.NewReservationController(reservationService, propertyService)
	paymentController := controllers.NewPaymentController(paymentService)
	inquiryController := controllers.NewInquiryController(inquiryService)
	adminController := controllers.NewAdminController(dashboardService)
	authController := controllers.NewAuthController(db)

	// Build router
	router := routes.SetupRouter(db, propertyController, reservationController, paymentController, inquiryController, adminController, authController)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
