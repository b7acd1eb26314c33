package delivery

import (
	"net/http"
	"strconv"

	"pulseboard-backend/internal/triage/domain"
	"pulseboard-backend/internal/triage/usecase"

	"github.com/gin-gonic/gin"
)

// TriageHandler handles triage HTTP requests
type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
}

func NewTriageHandler(triageUsecase usecase.TriageUsecase) *TriageHandler {
	return &TriageHandler{
		triageUsecase: triageUsecase,
	}
}

// SyncNow runs a full triage sync for the authenticated user and returns the
// aggregate result. Partial failures come back as 200 with a non-empty
// errors list; only a run that produced nothing at all is a 502.
// POST /api/triage/sync
func (h *TriageHandler) SyncNow(c *gin.Context) {
	userID := c.GetString("userID")

	result := h.triageUsecase.RunTriageSync(c.Request.Context(), userID)

	status := http.StatusOK
	if result.Added == 0 && result.Skipped == 0 && len(result.Errors) > 0 {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}

// GetQueue lists the user's review queue
// GET /api/triage/queue?status=pending&limit=50&offset=0
func (h *TriageHandler) GetQueue(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var statusPtr *domain.EntryStatus
	if s := c.Query("status"); s != "" {
		status := domain.EntryStatus(s)
		statusPtr = &status
	}

	entries, total, err := h.triageUsecase.GetQueue(userID, statusPtr, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
	})
}

// ReviewEntry records a review decision on a pending entry
// PATCH /api/triage/queue/:id
func (h *TriageHandler) ReviewEntry(c *gin.Context) {
	userID := c.GetString("userID")
	entryID := c.Param("id")

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := domain.EntryStatus(req.Decision)
	if !decision.IsReviewDecision() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be approved, dismissed or pushed_to_context"})
		return
	}

	applied, err := h.triageUsecase.ReviewEntry(userID, entryID, decision)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "entry not found or already reviewed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review recorded"})
}
