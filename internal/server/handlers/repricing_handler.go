package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/repricer"
)

// RepricingHandler triggers repricing runs and reports on the latest batch.
type RepricingHandler struct {
	svc    *repricer.Service
	logger *zap.Logger
}

// NewRepricingHandler constructs the HTTP handler adapter.
func NewRepricingHandler(svc *repricer.Service, logger *zap.Logger) *RepricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepricingHandler{svc: svc, logger: logger}
}

// Run evaluates the full catalog synchronously and returns the batch summary.
func (h *RepricingHandler) Run(c *gin.Context) {
	summary, err := h.svc.RunBatch(c.Request.Context(), "manual")
	if err != nil {
		if errors.Is(err, repricer.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a repricing run is already in progress"})
			return
		}
		h.logger.Error("repricing run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "repricing run failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Summary returns the most recently completed batch summary.
func (h *RepricingHandler) Summary(c *gin.Context) {
	summary, ok, err := h.svc.LatestSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading batch summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed repricing runs"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
