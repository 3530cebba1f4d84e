package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/approval"
)

// reviewRequest carries the reviewer identity for approve and reject calls.
type reviewRequest struct {
	Reviewer string `json:"reviewer" binding:"required"`
	Note     string `json:"note"`
}

// ProposalHandler exposes the price proposal review workflow.
type ProposalHandler struct {
	svc    *approval.Service
	logger *zap.Logger
}

// NewProposalHandler constructs the HTTP handler adapter.
func NewProposalHandler(svc *approval.Service, logger *zap.Logger) *ProposalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalHandler{svc: svc, logger: logger}
}

// List returns proposals, optionally filtered by status and batch.
func (h *ProposalHandler) List(c *gin.Context) {
	status, err := models.ParseProposalStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposals, err := h.svc.List(c.Request.Context(), status, c.Query("batch_id"))
	if err != nil {
		h.logger.Error("failed listing proposals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(proposals), "proposals": proposals})
}

// Get returns one proposal by identifier.
func (h *ProposalHandler) Get(c *gin.Context) {
	proposal, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, approval.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}
		h.logger.Error("failed loading proposal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load proposal"})
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Approve accepts a pending proposal and pushes the price when a client is configured.
func (h *ProposalHandler) Approve(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	proposal, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.Reviewer, req.Note)
	if err != nil {
		h.respondApprovalError(c, err, "failed approving proposal")
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Reject declines a pending proposal.
func (h *ProposalHandler) Reject(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	proposal, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.Reviewer, req.Note)
	if err != nil {
		h.respondApprovalError(c, err, "failed rejecting proposal")
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) respondApprovalError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, approval.ErrProposalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
	case errors.Is(err, approval.ErrProposalNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrProposalExpired):
		c.JSON(http.StatusGone, gin.H{"error": "proposal has expired"})
	case errors.Is(err, approval.ErrPushFailed):
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to push price to channel"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update proposal"})
	}
}
