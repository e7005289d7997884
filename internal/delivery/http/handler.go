package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/infrastructure/notify"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/buysmart/comparison/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "buysmart-comparison"
	serviceVersion = "1.0.0"
)

// StorageChecker reports whether the slot storage is reachable
type StorageChecker interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison *usecase.ComparisonService
	feed       *notify.Feed
	storage    StorageChecker
	logger     *logging.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes the comparison endpoints answer 503.
func NewHandler(comparison *usecase.ComparisonService, feed *notify.Feed, storage StorageChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		comparison: comparison,
		feed:       feed,
		storage:    storage,
		logger:     logger.Component("http"),
	}
}

type addRequest struct {
	AnalysisID string `json:"analysisId" binding:"required"`
}

// HealthCheck returns the health status of the API and its storage
func (h *Handler) HealthCheck(c *gin.Context) {
	if h.storage != nil {
		if err := h.storage.Ping(c.Request.Context()); err != nil {
			h.logger.Error(c.Request.Context(), "storage health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": serviceName,
				"version": serviceVersion,
				"storage": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// GetComparison returns the staged products, count, capacity and best pick
func (h *Handler) GetComparison(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, h.comparison.Snapshot())
}

// AddToComparison stages the analysis named in the body
func (h *Handler) AddToComparison(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysisId is required"})
		return
	}

	product, err := h.comparison.AddCandidate(c.Request.Context(), req.AnalysisID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product":  product,
		"snapshot": h.comparison.Snapshot(),
	})
}

// RemoveFromComparison unstages one analysis
func (h *Handler) RemoveFromComparison(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if !h.comparison.Remove(c.Request.Context(), c.Param("analysisId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product is not in comparison"})
		return
	}
	c.JSON(http.StatusOK, h.comparison.Snapshot())
}

// ClearComparison empties the comparison set
func (h *Handler) ClearComparison(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.comparison.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.comparison.Snapshot())
}

// ListCandidates returns the candidate pool, optionally filtered by ?q=.
// ?remote=true delegates the search to the backend.
func (h *Handler) ListCandidates(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	query := c.Query("q")
	var (
		candidates []domain.AvailableProduct
		err        error
	)
	if c.Query("remote") == "true" {
		candidates, err = h.comparison.SearchCandidates(c.Request.Context(), query)
	} else {
		candidates, err = h.comparison.Candidates(c.Request.Context(), query)
	}
	if candidates == nil {
		candidates = []domain.AvailableProduct{}
	}
	if err != nil {
		h.logger.Error(c.Request.Context(), "request failed", err, "path", c.FullPath())
		c.JSON(statusFor(err), gin.H{
			"products": candidates,
			"total":    len(candidates),
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": candidates,
		"total":    len(candidates),
	})
}

// DrainNotifications returns and clears pending user notifications
func (h *Handler) DrainNotifications(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusOK, gin.H{"notifications": []domain.Notification{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Drain()})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.comparison == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "comparison service not configured"})
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded), errors.Is(err, domain.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
