package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serverapp/account-api/internal/core/domain"
)

const accountCollection = "accounts"

type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

// EnsureAccountIndexes creates the unique indexes backing the email, phone
// and username uniqueness constraints. Called once at startup; the indexes
// are what turns a registration race into a duplicate-key error instead of a
// second account.
func EnsureAccountIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	_, err := db.Collection(accountCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

type mongoAccount struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	PhoneNumber      string             `bson:"phone_number"`
	Username         string             `bson:"username"`
	FirstName        string             `bson:"first_name"`
	LastName         string             `bson:"last_name"`
	PasswordHash     string             `bson:"password_hash"`
	EmailConfirmed   bool               `bson:"email_confirmed"`
	FailedLoginCount int                `bson:"failed_login_count"`
	LockedUntil      *time.Time         `bson:"locked_until,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (r *MongoAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": strings.ToLower(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeErr("count by email", err)
	}
	return n > 0, nil
}

func (r *MongoAccountRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"phone_number": phone}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeErr("count by phone", err)
	}
	return n > 0, nil
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": strings.ToLower(username)})
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeErr("find account", err)
	}
	return ma.toDomain(), nil
}

// Create inserts the account. The unique indexes re-check uniqueness
// atomically; on a duplicate-key error the repository re-queries to report
// which field collided.
func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := mongoAccount{
		Email:            account.Email,
		PhoneNumber:      account.PhoneNumber,
		Username:         account.Username,
		FirstName:        account.FirstName,
		LastName:         account.LastName,
		PasswordHash:     account.PasswordHash,
		EmailConfirmed:   account.EmailConfirmed,
		FailedLoginCount: account.FailedLoginCount,
		LockedUntil:      account.LockedUntil,
		CreatedAt:        account.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, r.classifyConflict(ctx, account)
		}
		return nil, storeErr("insert account", err)
	}

	created := *account
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = id.Hex()
	}
	return &created, nil
}

// classifyConflict resolves a duplicate-key error into the precise taken
// field by re-querying. When the re-check no longer sees a collision (the
// winning record was deleted meanwhile) it falls back to the email conflict;
// registration discloses existence by design, so nothing new leaks.
func (r *MongoAccountRepository) classifyConflict(ctx context.Context, account *domain.Account) error {
	if taken, err := r.ExistsByEmail(ctx, account.Email); err == nil && taken {
		return domain.ErrEmailTaken
	}
	if taken, err := r.ExistsByPhone(ctx, account.PhoneNumber); err == nil && taken {
		return domain.ErrPhoneTaken
	}
	if _, err := r.FindByUsername(ctx, account.Username); err == nil {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

func (r *MongoAccountRepository) UpdateLoginState(ctx context.Context, id string, failedLoginCount int, lockedUntil *time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	update := bson.M{"$set": bson.M{
		"failed_login_count": failedLoginCount,
		"locked_until":       lockedUntil,
	}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return storeErr("update login state", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (ma *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:               ma.ID.Hex(),
		Email:            ma.Email,
		PhoneNumber:      ma.PhoneNumber,
		Username:         ma.Username,
		FirstName:        ma.FirstName,
		LastName:         ma.LastName,
		PasswordHash:     ma.PasswordHash,
		EmailConfirmed:   ma.EmailConfirmed,
		FailedLoginCount: ma.FailedLoginCount,
		LockedUntil:      ma.LockedUntil,
		CreatedAt:        ma.CreatedAt,
	}
}

// storeErr wraps a driver failure so callers can match the transient
// domain.ErrStoreUnavailable without losing the underlying cause.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
