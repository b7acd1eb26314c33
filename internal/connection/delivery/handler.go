package delivery

import (
	"net/http"
	"time"

	"pulseboard-backend/internal/connection/domain"
	"pulseboard-backend/internal/connection/usecase"

	"github.com/gin-gonic/gin"
)

// ConnectionHandler handles provider connection HTTP requests
type ConnectionHandler struct {
	connectionUsecase usecase.ConnectionUsecase
}

func NewConnectionHandler(connectionUsecase usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUsecase: connectionUsecase,
	}
}

// ConnectRequest carries the credential obtained by the dashboard's OAuth flow.
type ConnectRequest struct {
	AccountEmail string `json:"account_email"`
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	Scopes       string `json:"scopes"`
	ExpiresAt    string `json:"expires_at"` // RFC3339, optional
}

// Connect stores or replaces a provider connection
// PUT /api/connections/:provider
func (h *ConnectionHandler) Connect(c *gin.Context) {
	userID := c.GetString("userID")
	provider := domain.Provider(c.Param("provider"))

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiry time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
			return
		}
		expiry = t
	}

	if err := h.connectionUsecase.Connect(userID, provider, req.AccountEmail, req.AccessToken, req.RefreshToken, req.Scopes, expiry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connection saved"})
}

// List returns the user's connections without token material
// GET /api/connections
func (h *ConnectionHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	summaries, err := h.connectionUsecase.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": summaries})
}
