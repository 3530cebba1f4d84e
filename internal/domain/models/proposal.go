package models

import (
	"fmt"
	"time"
)

// ProposalStatus tracks a proposal through the approval workflow.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
	ProposalApplied  ProposalStatus = "applied"
)

// ParseProposalStatus validates a status filter value. Empty means no filter.
func ParseProposalStatus(value string) (ProposalStatus, error) {
	switch status := ProposalStatus(value); status {
	case "", ProposalPending, ProposalApproved, ProposalRejected, ProposalApplied:
		return status, nil
	default:
		return "", fmt.Errorf("unknown proposal status %q", value)
	}
}

// PriceProposal is the persistable unit produced by a repricing batch: one
// calculation result plus the product snapshot it was computed from. The engine
// creates proposals in "pending" state; only the approval workflow mutates them
// afterwards. AccountID is stamped by the storage layer, not the engine.
type PriceProposal struct {
	ID        string `bson:"proposal_id" json:"proposal_id"`
	AccountID string `bson:"account_id,omitempty" json:"account_id,omitempty"`

	SKU             string `bson:"sku" json:"sku"`
	ProductName     string `bson:"product_name" json:"product_name"`
	Brand           string `bson:"brand" json:"brand"`
	Category        string `bson:"category" json:"category"`
	Stock           int    `bson:"stock" json:"stock"`
	SalesLast7Days  int    `bson:"sales_last_7_days" json:"sales_last_7_days"`
	SalesLast30Days int    `bson:"sales_last_30_days" json:"sales_last_30_days"`

	Calculation PriceCalculationResult `bson:"calculation" json:"calculation"`

	Status     ProposalStatus `bson:"status" json:"status"`
	BatchID    string         `bson:"batch_id" json:"batch_id"`
	ReviewedBy string         `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewNote string         `bson:"review_note,omitempty" json:"review_note,omitempty"`
	ReviewedAt *time.Time     `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt int64     `bson:"expires_at" json:"expires_at"` // epoch seconds, creation + 30 days
}

// Expired reports whether the proposal's review window has passed.
func (p PriceProposal) Expired(now time.Time) bool {
	return p.ExpiresAt > 0 && now.Unix() >= p.ExpiresAt
}
