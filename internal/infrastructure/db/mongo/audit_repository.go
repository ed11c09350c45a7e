package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/serverapp/account-api/internal/core/domain"
)

const auditCollection = "auth_events"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Kind     string    `bson:"kind"`
	Username string    `bson:"username"`
	Email    string    `bson:"email,omitempty"`
	Reason   string    `bson:"reason,omitempty"`
	At       time.Time `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Kind:     string(event.Kind),
		Username: event.Username,
		Email:    event.Email,
		Reason:   event.Reason,
		At:       event.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return storeErr("insert auth event", err)
	}
	return nil
}
