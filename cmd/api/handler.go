package api

import (
	authDelivery "pulseboard-backend/internal/auth/delivery"
	authRepo "pulseboard-backend/internal/auth/repository"
	authUsecase "pulseboard-backend/internal/auth/usecase"
	connDelivery "pulseboard-backend/internal/connection/delivery"
	connUsecasePkg "pulseboard-backend/internal/connection/usecase"
	triageDelivery "pulseboard-backend/internal/triage/delivery"
	triageUsecasePkg "pulseboard-backend/internal/triage/usecase"
	"pulseboard-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	config        *config.Config
	triageHandler *triageDelivery.TriageHandler
	connHandler   *connDelivery.ConnectionHandler
	fcmHandler    *authDelivery.FCMHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	triageUc triageUsecasePkg.TriageUsecase,
	connUc connUsecasePkg.ConnectionUsecase,
	fcmTokenRepo authRepo.FCMTokenRepository,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:   authUc,
		config:        cfg,
		triageHandler: triageDelivery.NewTriageHandler(triageUc),
		connHandler:   connDelivery.NewConnectionHandler(connUc),
		fcmHandler:    authDelivery.NewFCMHandler(fcmTokenRepo),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.triageHandler, h.connHandler, h.fcmHandler)

	return r.Run(addr)
}
