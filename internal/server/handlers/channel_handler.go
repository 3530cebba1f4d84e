package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// ChannelStore covers the channel persistence operations the API exposes.
type ChannelStore interface {
	ListChannels(ctx context.Context) ([]models.Channel, error)
	UpsertChannel(ctx context.Context, ch models.Channel) error
}

// ChannelHandler manages the sales channel configuration surface.
type ChannelHandler struct {
	store  ChannelStore
	logger *zap.Logger
}

// NewChannelHandler constructs the HTTP handler adapter.
func NewChannelHandler(store ChannelStore, logger *zap.Logger) *ChannelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelHandler{store: store, logger: logger}
}

// List returns all configured channels.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.store.ListChannels(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing channels", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(channels), "channels": channels})
}

// Upsert creates or replaces the channel at the path identifier.
func (h *ChannelHandler) Upsert(c *gin.Context) {
	var channel models.Channel
	if err := c.ShouldBindJSON(&channel); err != nil {
		h.logger.Warn("invalid channel payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if channel.CommissionPercent < 0 || channel.CommissionPercent >= 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commission_percent must be between 0 and 100"})
		return
	}
	if channel.VATPercent < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vat_percent must not be negative"})
		return
	}

	channel.ID = c.Param("id")
	if err := h.store.UpsertChannel(c.Request.Context(), channel); err != nil {
		h.logger.Error("failed upserting channel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save channel"})
		return
	}

	c.JSON(http.StatusOK, channel)
}
