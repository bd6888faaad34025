package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tribune-social/backend/internal/config"
	"github.com/tribune-social/backend/internal/database"
	"github.com/tribune-social/backend/internal/handlers"
	"github.com/tribune-social/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// New wires the handler layer to an open database service.
func New(cfg *config.Config, db database.Service) *Server {
	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(db.GetDB()),
	}
}

// HTTPServer wraps the configured router in an http.Server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
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

	secret := []byte(s.cfg.JWTSecret)

	// API routes. Every request gets its own loader bundle.
	api := r.Group("/api")
	api.Use(middleware.Loaders(s.db.GetDB()))
	{
		// Post routes (public reads; vote status resolves when a token is present)
		api.GET("/posts", middleware.OptionalAuth(secret), s.handler.Post.GetPosts)
		api.GET("/posts/:id", middleware.OptionalAuth(secret), s.handler.Post.GetPost)
		api.GET("/posts/:id/categories", s.handler.Post.GetPostCategories)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Auth(secret))
		{
			protected.POST("/posts/:id/vote", s.handler.Vote.VotePost)
			protected.GET("/me/votes", s.handler.Vote.GetMyVotes)
		}
	}

	return r
}
