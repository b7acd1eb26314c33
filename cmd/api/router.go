package api

import (
	"net/http"

	authDelivery "pulseboard-backend/internal/auth/delivery"
	authUsecase "pulseboard-backend/internal/auth/usecase"
	connDelivery "pulseboard-backend/internal/connection/delivery"
	triageDelivery "pulseboard-backend/internal/triage/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	triageHandler *triageDelivery.TriageHandler,
	connHandler *connDelivery.ConnectionHandler,
	fcmHandler *authDelivery.FCMHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Connection routes (protected)
		connections := api.Group("/connections")
		connections.Use(authDelivery.AuthMiddleware(authUc))
		{
			connections.GET("", connHandler.List)
			connections.PUT("/:provider", connHandler.Connect)
		}

		// Triage routes (protected)
		triage := api.Group("/triage")
		triage.Use(authDelivery.AuthMiddleware(authUc))
		{
			triage.POST("/sync", triageHandler.SyncNow)
			triage.GET("/queue", triageHandler.GetQueue)
			triage.PATCH("/queue/:id", triageHandler.ReviewEntry)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authDelivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", fcmHandler.RegisterToken)
			fcm.DELETE("/:token", fcmHandler.UnregisterToken)
		}
	}
}
