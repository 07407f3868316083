package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medconnect/booking-api/internal/config"
	"github.com/medconnect/booking-api/internal/handlers"
	"github.com/medconnect/booking-api/internal/middleware"
	"github.com/medconnect/booking-api/internal/policy"
	"github.com/medconnect/booking-api/internal/store/mongostore"
	"github.com/medconnect/booking-api/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)

	st := mongostore.New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}

	h := handlers.New(st.Users, st.Doctors, st.Appointments, policy.New(), tokens, logger)

	// --- Gin Router ---
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := middleware.Auth(tokens)

	// --- Routes ---
	users := r.Group("/api/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/profile", auth, h.GetProfile)
		users.PUT("/profile", auth, h.UpdateProfile)
		users.GET("", auth, middleware.RequireAdmin(), h.ListUsers)
		users.DELETE("/:id", auth, middleware.RequireAdmin(), h.DeleteUser)
	}

	doctors := r.Group("/api/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/:id/availability", h.GetAvailability)
		doctors.POST("", auth, h.CreateDoctorProfile)
		doctors.PUT("", auth, h.UpdateDoctorProfile)
		doctors.POST("/:id/reviews", auth, h.AddReview)
	}

	appointments := r.Group("/api/appointments")
	appointments.Use(auth)
	{
		appointments.GET("/user", h.ListUserAppointments)
		appointments.GET("/doctor", h.ListDoctorAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.PUT("/:id/status", h.UpdateAppointmentStatus)
		appointments.PUT("/:id/medical", h.UpdateClinicalInfo)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}

	logger.Info("starting server", "port", cfg.APIPort)
	if err := r.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
