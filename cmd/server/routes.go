package main

import (
	"github.com/gin-gonic/gin"
	"promatch.backend/internal/interfaces/http/handlers"
	"promatch.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	connectionHandler *handlers.ConnectionHandler
	searchHandler     *handlers.SearchHandler
	activityHandler   *handlers.ActivityHandler
	paymentHandler    *handlers.PaymentHandler
	chatHandler       *handlers.ChatHandler
	uploadHandler     *handlers.UploadHandler
	referenceHandler  *handlers.ReferenceHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", d.authHandler.Logout)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
			auth.POST("/onboarding", d.authMiddleware, d.authHandler.Onboard)
		}

		// Reference lists (public)
		v1.GET("/reference/:kind", d.referenceHandler.List)

		// User directory, search and connections
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.DELETE("/me", d.userHandler.DeleteMe)
			users.GET("/connections", d.connectionHandler.List)

			users.GET("/teachers/search", d.searchHandler.Search)
			users.GET("/teachers/recommended", d.searchHandler.Recommended)
			users.GET("/teachers/:id", d.userHandler.GetTeacher)
			users.GET("/teachers/:id/similar", d.searchHandler.Similar)
			users.GET("/teachers/:id/connection-status", d.connectionHandler.Status)
			users.PUT("/teachers/:id/connect", middleware.IdempotencyMiddleware(), d.connectionHandler.Connect)
		}

		// Activity feed
		activity := v1.Group("/activity")
		activity.Use(d.authMiddleware)
		{
			activity.GET("", d.activityHandler.List)
			activity.POST("/sessions", d.activityHandler.RecordSession)
		}

		// Payments: OAuth callback and webhook are called by the processor
		payments := v1.Group("/payments")
		{
			payments.GET("/oauth/callback", d.paymentHandler.OAuthCallback)
			payments.POST("/webhook", d.paymentHandler.Webhook)
			payments.GET("/connect", d.authMiddleware, d.paymentHandler.Connect)
			payments.GET("/status", d.authMiddleware, d.paymentHandler.Status)
			payments.POST("/checkout/:teacherId", d.authMiddleware, middleware.IdempotencyMiddleware(), d.paymentHandler.Checkout)
		}

		// Chat
		chat := v1.Group("/chat")
		{
			chat.POST("/webhook", d.chatHandler.Webhook)
			chat.GET("/token", d.authMiddleware, d.chatHandler.Token)
			chat.GET("/unread", d.authMiddleware, d.chatHandler.Unread)
		}

		// Uploads
		v1.POST("/uploads/avatar", d.authMiddleware, d.uploadHandler.Avatar)
	}
}
