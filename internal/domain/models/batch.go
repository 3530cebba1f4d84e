package models

import "time"

// BatchSummary aggregates the outcome of one repricing batch for dashboards
// and notifications.
type BatchSummary struct {
	BatchID           string    `bson:"batch_id" json:"batch_id"`
	Trigger           string    `bson:"trigger" json:"trigger"` // "scheduled" or "manual"
	ProductsEvaluated int       `bson:"products_evaluated" json:"products_evaluated"`
	ProposalsCreated  int       `bson:"proposals_created" json:"proposals_created"`
	StartedAt         time.Time `bson:"started_at" json:"started_at"`
	CompletedAt       time.Time `bson:"completed_at" json:"completed_at"`
	DurationMillis    int64     `bson:"duration_millis" json:"duration_millis"`
}
