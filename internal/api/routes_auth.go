package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Maryann878/LinguAfrika-sub000/internal/app"
	iauth "github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/handlers"
	"github.com/Maryann878/LinguAfrika-sub000/internal/middleware"
)

type authRouteDeps struct {
	AuthHandler *handlers.AuthHandler
	JWT         *iauth.JWTService
	RateStore   middleware.RateStore
	Limits      app.RateLimitConfig
}

func registerAuthRoutes(engine *gin.Engine, deps authRouteDeps) {
	loginGate := middleware.RateLimit(deps.RateStore, middleware.RateLimitRule{
		Category:    "login",
		MaxRequests: deps.Limits.Login.MaxRequests,
		Window:      deps.Limits.Login.Window,
	})
	verifyGate := middleware.RateLimit(deps.RateStore, middleware.RateLimitRule{
		Category:    "verification",
		MaxRequests: deps.Limits.Verification.MaxRequests,
		Window:      deps.Limits.Verification.Window,
	})
	resetGate := middleware.RateLimit(deps.RateStore, middleware.RateLimitRule{
		Category:    "password_reset",
		MaxRequests: deps.Limits.PasswordReset.MaxRequests,
		Window:      deps.Limits.PasswordReset.Window,
	})

	auth := engine.Group("/api/auth")
	{
		auth.POST("/signup", loginGate, deps.AuthHandler.Signup)
		auth.POST("/login", loginGate, deps.AuthHandler.Login)
		auth.POST("/verify", verifyGate, deps.AuthHandler.VerifyEmail)
		auth.POST("/resend-verification", verifyGate, deps.AuthHandler.ResendVerification)
		auth.POST("/forgot-password", resetGate, deps.AuthHandler.ForgotPassword)
		auth.POST("/verify-password-reset-otp", resetGate, deps.AuthHandler.VerifyPasswordResetOTP)
		auth.POST("/resend-password-reset-otp", resetGate, deps.AuthHandler.ResendPasswordResetOTP)
		auth.POST("/reset-password", resetGate, deps.AuthHandler.ResetPassword)
	}

	engine.GET("/api/auth/me", middleware.Auth(deps.JWT), deps.AuthHandler.Me)
}
