package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Maryann878/LinguAfrika-sub000/internal/app"
	iauth "github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/handlers"
	"github.com/Maryann878/LinguAfrika-sub000/internal/middleware"
	"github.com/Maryann878/LinguAfrika-sub000/internal/services"
	apperrors "github.com/Maryann878/LinguAfrika-sub000/pkg/errors"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/response"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, authSvc *services.AuthService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if authSvc == nil {
		return nil, fmt.Errorf("auth service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	rateStore := middleware.NewMemoryRateStore()
	registerAuthRoutes(r, authRouteDeps{
		AuthHandler: handlers.NewAuthHandler(authSvc),
		JWT:         jwt,
		RateStore:   rateStore,
		Limits:      cfg.RateLimit,
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	return r, nil
}
