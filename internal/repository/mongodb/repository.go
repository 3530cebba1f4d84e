package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// maxWriteBatch caps how many documents go into a single bulk write so one
// oversized run cannot produce an unbounded insert.
const maxWriteBatch = 25

const (
	productsCollection  = "products"
	channelsCollection  = "channels"
	rulesCollection     = "pricing_rules"
	proposalsCollection = "price_proposals"
)

// Store implements persistence for products, channels, rules and proposals.
type Store struct {
	client    *mongo.Client
	dbName    string
	accountID string
}

// NewStore connects to MongoDB and verifies the connection. The accountID is
// stamped onto every proposal written through this store.
func NewStore(ctx context.Context, uri, dbName, accountID string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client:    client,
		dbName:    dbName,
		accountID: accountID,
	}, nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// UpsertProducts writes the catalog snapshot, keyed by SKU, in bounded
// batches. Existing documents are replaced so stale fields never linger.
func (s *Store) UpsertProducts(ctx context.Context, products []models.Product) error {
	now := time.Now().UTC()
	coll := s.collection(productsCollection)

	for start := 0; start < len(products); start += maxWriteBatch {
		end := start + maxWriteBatch
		if end > len(products) {
			end = len(products)
		}

		writes := make([]mongo.WriteModel, 0, end-start)
		for _, p := range products[start:end] {
			p.UpdatedAt = now
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"sku": p.SKU}).
				SetReplacement(p).
				SetUpsert(true))
		}

		if _, err := coll.BulkWrite(ctx, writes); err != nil {
			return fmt.Errorf("failed to upsert products: %w", err)
		}
	}
	return nil
}

// ListProducts returns the full catalog.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.collection(productsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "sku", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// ListChannels returns every configured sales channel.
func (s *Store) ListChannels(ctx context.Context) ([]models.Channel, error) {
	cursor, err := s.collection(channelsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	var channels []models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("failed to decode channels: %w", err)
	}
	return channels, nil
}

// UpsertChannel creates or replaces a channel definition by id.
func (s *Store) UpsertChannel(ctx context.Context, ch models.Channel) error {
	_, err := s.collection(channelsCollection).ReplaceOne(ctx,
		bson.M{"channel_id": ch.ID}, ch, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert channel: %w", err)
	}
	return nil
}

// CreateRule inserts a new pricing rule.
func (s *Store) CreateRule(ctx context.Context, rule models.PricingRule) error {
	if _, err := s.collection(rulesCollection).InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("failed to insert pricing rule: %w", err)
	}
	return nil
}

// GetRule fetches one rule by id.
func (s *Store) GetRule(ctx context.Context, id string) (models.PricingRule, error) {
	var rule models.PricingRule
	err := s.collection(rulesCollection).FindOne(ctx, bson.M{"rule_id": id}).Decode(&rule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PricingRule{}, ErrNotFound
	}
	if err != nil {
		return models.PricingRule{}, fmt.Errorf("failed to fetch pricing rule: %w", err)
	}
	return rule, nil
}

// ListRules returns all rules sorted by ascending priority, the order the
// engine evaluates them in.
func (s *Store) ListRules(ctx context.Context) ([]models.PricingRule, error) {
	cursor, err := s.collection(rulesCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "priority", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}

	var rules []models.PricingRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode pricing rules: %w", err)
	}
	return rules, nil
}

// UpdateRule replaces an existing rule.
func (s *Store) UpdateRule(ctx context.Context, rule models.PricingRule) error {
	res, err := s.collection(rulesCollection).ReplaceOne(ctx, bson.M{"rule_id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("failed to update pricing rule: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRule removes a rule by id.
func (s *Store) DeleteRule(ctx context.Context, id string) error {
	res, err := s.collection(rulesCollection).DeleteOne(ctx, bson.M{"rule_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveProposals persists a batch of proposals in bounded insert batches,
// stamping each document with the store's account id.
func (s *Store) SaveProposals(ctx context.Context, proposals []models.PriceProposal) error {
	coll := s.collection(proposalsCollection)

	for start := 0; start < len(proposals); start += maxWriteBatch {
		end := start + maxWriteBatch
		if end > len(proposals) {
			end = len(proposals)
		}

		docs := make([]interface{}, 0, end-start)
		for _, p := range proposals[start:end] {
			p.AccountID = s.accountID
			docs = append(docs, p)
		}

		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert proposals: %w", err)
		}
	}
	return nil
}

// ListProposals returns proposals for this account, newest first, optionally
// filtered by status and batch id.
func (s *Store) ListProposals(ctx context.Context, status models.ProposalStatus, batchID string) ([]models.PriceProposal, error) {
	filter := bson.M{"account_id": s.accountID}
	if status != "" {
		filter["status"] = status
	}
	if batchID != "" {
		filter["batch_id"] = batchID
	}

	cursor, err := s.collection(proposalsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	var proposals []models.PriceProposal
	if err := cursor.All(ctx, &proposals); err != nil {
		return nil, fmt.Errorf("failed to decode proposals: %w", err)
	}
	return proposals, nil
}

// GetProposal fetches one proposal by id.
func (s *Store) GetProposal(ctx context.Context, id string) (models.PriceProposal, error) {
	var proposal models.PriceProposal
	err := s.collection(proposalsCollection).FindOne(ctx,
		bson.M{"proposal_id": id, "account_id": s.accountID}).Decode(&proposal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PriceProposal{}, ErrNotFound
	}
	if err != nil {
		return models.PriceProposal{}, fmt.Errorf("failed to fetch proposal: %w", err)
	}
	return proposal, nil
}

// UpdateProposalStatus records a review decision on a proposal.
func (s *Store) UpdateProposalStatus(ctx context.Context, id string, status models.ProposalStatus, reviewer, note string, reviewedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_by": reviewer,
		"review_note": note,
		"reviewed_at": reviewedAt,
	}}
	res, err := s.collection(proposalsCollection).UpdateOne(ctx,
		bson.M{"proposal_id": id, "account_id": s.accountID}, update)
	if err != nil {
		return fmt.Errorf("failed to update proposal status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredProposals removes pending proposals whose review window has
// passed. Reviewed proposals are kept for audit.
func (s *Store) DeleteExpiredProposals(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":     models.ProposalPending,
		"expires_at": bson.M{"$gt": 0, "$lte": now.Unix()},
	}
	res, err := s.collection(proposalsCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired proposals: %w", err)
	}
	return res.DeletedCount, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
