package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/catalog"
)

// CatalogHandler exposes the stored product catalog and its sync trigger.
type CatalogHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

// ListProducts returns every product currently held in the catalog store.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.Products(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// Sync pulls the catalog from the configured source sheet into the store.
func (h *CatalogHandler) Sync(c *gin.Context) {
	count, err := h.svc.Sync(c.Request.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrSourceNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog source not configured"})
			return
		}
		h.logger.Error("catalog sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to sync catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": count})
}
