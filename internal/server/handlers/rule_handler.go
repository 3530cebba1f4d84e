package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/repository/mongodb"
)

// RuleStore covers the rule persistence operations the API exposes.
type RuleStore interface {
	CreateRule(ctx context.Context, rule models.PricingRule) error
	GetRule(ctx context.Context, id string) (models.PricingRule, error)
	ListRules(ctx context.Context) ([]models.PricingRule, error)
	UpdateRule(ctx context.Context, rule models.PricingRule) error
	DeleteRule(ctx context.Context, id string) error
}

// RuleHandler manages the pricing rule CRUD surface.
type RuleHandler struct {
	store  RuleStore
	logger *zap.Logger
}

// NewRuleHandler constructs the HTTP handler adapter.
func NewRuleHandler(store RuleStore, logger *zap.Logger) *RuleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleHandler{store: store, logger: logger}
}

// List returns all rules in evaluation order.
func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.store.ListRules(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rules), "rules": rules})
}

// Create stores a new rule, assigning an identifier when none is supplied.
func (h *RuleHandler) Create(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		h.logger.Warn("invalid rule payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := rule.Action.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	if err := h.store.CreateRule(c.Request.Context(), rule); err != nil {
		h.logger.Error("failed creating rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rule"})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// Get returns one rule by identifier.
func (h *RuleHandler) Get(c *gin.Context) {
	rule, err := h.store.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		h.logger.Error("failed loading rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rule"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

// Update replaces the rule at the path identifier.
func (h *RuleHandler) Update(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		h.logger.Warn("invalid rule payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := rule.Action.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule.ID = c.Param("id")
	if err := h.store.UpdateRule(c.Request.Context(), rule); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		h.logger.Error("failed updating rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rule"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

// Delete removes a rule by identifier.
func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		h.logger.Error("failed deleting rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rule"})
		return
	}

	c.Status(http.StatusNoContent)
}
