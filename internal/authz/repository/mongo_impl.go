package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

type MongoRepository struct {
	Principals  *mongo.Collection
	AuditEvents *mongo.Collection
	db          *mongo.Database
}

func NewMongoRepository(db *mongo.Database, principalsCollection, auditCollection string) *MongoRepository {
	return &MongoRepository{
		Principals:  db.Collection(principalsCollection),
		AuditEvents: db.Collection(auditCollection),
		db:          db,
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	// Audit queries filter by principal and by time window.
	idxAuditPrincipal := mongo.IndexModel{
		Keys: bson.D{
			{Key: "principal_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("audit_principal_time"),
	}
	idxAuditOutcome := mongo.IndexModel{
		Keys: bson.D{
			{Key: "outcome", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("audit_outcome_time"),
	}

	_, err := r.AuditEvents.Indexes().CreateMany(ctx, []mongo.IndexModel{idxAuditPrincipal, idxAuditOutcome})
	return err
}

// GetPrincipalByID loads one principal document. ErrNotFound when the id
// resolves to nothing.
func (r *MongoRepository) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	var p model.Principal
	err := r.Principals.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Record appends an audit event to the audit collection.
func (r *MongoRepository) Record(ctx context.Context, event *model.AuditEvent) error {
	_, err := r.AuditEvents.InsertOne(ctx, event)
	return err
}

// GetCurrentState snapshots a business entity's fields for the sensitive
// field guard. The document is decoded into a plain map; the engine knows
// nothing about entity schemas.
func (r *MongoRepository) GetCurrentState(ctx context.Context, collection, entityID string) (map[string]any, error) {
	var doc bson.M
	err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": entityID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return map[string]any(doc), nil
}
