package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/askcoin-app/backend/internal/database"
	"github.com/askcoin-app/backend/internal/handlers"
	"github.com/askcoin-app/backend/internal/ledger"
	"github.com/askcoin-app/backend/internal/middleware"
	"github.com/askcoin-app/backend/internal/realtime"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// New wires the ledger, hub and handlers on top of the injected database
// service and returns a configured HTTP server.
func New(db database.Service) *http.Server {
	gormDB := db.GetDB()
	coins := ledger.New(gormDB)
	hub := realtime.NewHub()
	handler := handlers.NewHandler(gormDB, coins, hub)

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Question routes (public reads)
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.GET("/questions/:id", s.handler.Question.GetQuestion)

		// Answer routes (public reads)
		api.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Real-time change notifications (SSE)
		api.GET("/subscribe/*topic", s.handler.Realtime.Subscribe)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.GET("/me/affordability", s.handler.User.GetAffordability)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)

			// Answer protected routes
			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.PUT("/questions/:id/answers/:answerId", s.handler.Answer.UpdateAnswer)
			protected.DELETE("/questions/:id/answers/:answerId", s.handler.Answer.DeleteAnswer)
			protected.POST("/questions/:id/answers/:answerId/vote", s.handler.Answer.VoteAnswer)
		}
	}

	return r
}
