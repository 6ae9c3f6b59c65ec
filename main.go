// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Paul-trunc/DentalAppointments/config"
	"github.com/Paul-trunc/DentalAppointments/email"
	"github.com/Paul-trunc/DentalAppointments/endpoint"
	"github.com/Paul-trunc/DentalAppointments/middleware"
	"github.com/Paul-trunc/DentalAppointments/model"
	"github.com/Paul-trunc/DentalAppointments/scheduler"
	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()
	if os.Getenv("JWTSECRET") == "" {
		log.Fatal("JWTSECRET is required")
	}

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Dentist{},
		&model.Appointment{},
		&model.ReminderSent{},
		&model.ReminderCheckpoint{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}
	if err := model.SeedDentists(db); err != nil {
		log.Fatalf("Error seeding dentists: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	}

	// Email is optional; without SMTP credentials the app books appointments
	// but skips confirmations and reminders.
	var mailer email.Sender
	if smtp, err := email.NewSMTPSender(cfg); err != nil {
		log.Printf("Email disabled: %v", err)
	} else {
		mailer = smtp
		endpoint.SetMailer(smtp)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reminders := scheduler.New(db, mailer)
	go reminders.Start(ctx)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	// Create a Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	api := router.Group("/api")
	api.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))

	api.POST("/auth/signup", endpoint.Signup)
	api.POST("/auth/login", endpoint.Login)

	api.GET("/dentists", endpoint.ListDentists)
	api.GET("/dentists/:id/slots", endpoint.ListDentistSlots)

	api.POST("/appointments/unauthenticated", endpoint.CreateUnauthenticatedAppointment)
	api.PUT("/appointments/:id", endpoint.UpdateAppointment)
	api.DELETE("/appointments/:id", endpoint.DeleteAppointment)

	auth := api.Group("/")
	auth.Use(middleware.ValidateLoginToken())
	{
		auth.POST("/appointments", endpoint.CreateAppointment)
		auth.GET("/appointments/my", endpoint.ListMyAppointments)
		auth.GET("/appointments/test-email", endpoint.TestEmail)
		auth.GET("/users/profile", endpoint.GetProfile)
		auth.PUT("/users/profile", endpoint.UpdateProfile)
	}

	port := cfg.AppPort
	if port == 0 {
		port = 5000
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	go func() {
		log.Printf("Server running on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	cancel()
	reminders.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
