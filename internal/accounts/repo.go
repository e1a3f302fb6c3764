package accounts

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopmartlabs/shopmart-backend/pkg/models"
	"github.com/shopmartlabs/shopmart-backend/pkg/mongodb"
)

// Kind selects which credential collection an operation targets.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

func (k Kind) collection() string {
	if k == KindAdmin {
		return "admins"
	}
	return "users"
}

// Repository persists account documents. Users and admins live in
// separate collections with independent email uniqueness.
type Repository struct {
	users  *mongo.Collection
	admins *mongo.Collection
}

// NewRepository binds an account repo to the shared Mongo client.
func NewRepository(client *mongodb.Client) *Repository {
	return &Repository{
		users:  client.Collection(KindUser.collection()),
		admins: client.Collection(KindAdmin.collection()),
	}
}

func (r *Repository) col(kind Kind) *mongo.Collection {
	if kind == KindAdmin {
		return r.admins
	}
	return r.users
}

// EnsureIndexes enforces email uniqueness in both collections.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.users.Indexes().CreateOne(ctx, model); err != nil {
		return err
	}
	_, err := r.admins.Indexes().CreateOne(ctx, model)
	return err
}

// FindByEmail loads one account; mongo.ErrNoDocuments when absent.
func (r *Repository) FindByEmail(ctx context.Context, kind Kind, email string) (*models.Account, error) {
	var account models.Account
	if err := r.col(kind).FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Insert writes a new account and returns it with its assigned id.
func (r *Repository) Insert(ctx context.Context, kind Kind, account *models.Account) (*models.Account, error) {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	account.CreatedAt = time.Now().UTC()

	if _, err := r.col(kind).InsertOne(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
