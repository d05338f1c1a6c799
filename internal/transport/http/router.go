package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/waste3d/pianoplatform-api/internal/infrastructure/security"
	"github.com/waste3d/pianoplatform-api/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Tokens         *security.TokenManager
	AdminKeys      *security.AdminKeyVerifier
	Limiter        *middleware.RateLimiter
	Store          Pinger
}

func NewRouter(cfg RouterConfig, sessionHandler *SessionHandler, catalogHandler *CatalogHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		config.AllowOrigins = cfg.AllowedOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.AdminKeyHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/healthz", Healthz(cfg.Store))

	api := r.Group("/api/v1")
	{
		api.GET("/chords", catalogHandler.ListChords)
		api.GET("/chords/:tag", catalogHandler.GetChord)
		api.GET("/families", catalogHandler.ListFamilies)
		api.GET("/families/:tag", catalogHandler.GetFamily)
		api.GET("/reviews", sessionHandler.ListReviews)

		sessions := api.Group("/sessions")
		sessions.Use(middleware.Authenticate(cfg.Tokens))
		{
			sessions.POST("", sessionHandler.Open)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.GET("/:id/events", sessionHandler.Events)
			sessions.POST("/:id/sections/:section/complete", sessionHandler.CompleteSection)
			sessions.POST("/:id/reviews", cfg.Limiter.Limit("reviews", 5, time.Minute), sessionHandler.SubmitReview)
			sessions.PUT("/:id/review-dialog", sessionHandler.SetReviewDialog)
			sessions.DELETE("/:id", sessionHandler.Close)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminOnly(cfg.AdminKeys), middleware.Authenticate(cfg.Tokens), middleware.RequireUser())
		{
			admin.POST("/sessions", sessionHandler.Open)
		}
	}

	return r
}
