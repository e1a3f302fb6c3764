package cart

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

const collectionName = "carts"

// Repository persists cart documents, one per user.
type Repository struct {
	col *mongo.Collection
}

// NewRepository binds a cart repo to the shared Mongo client.
func NewRepository(client *mongodb.Client) *Repository {
	return &Repository{col: client.Collection(collectionName)}
}

// EnsureIndexes enforces the one-cart-per-user invariant.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindByUser loads the cart for one user; mongo.ErrNoDocuments when absent.
func (r *Repository) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Insert writes a fresh cart document for a user.
func (r *Repository) Insert(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Save replaces the items and total of an existing cart document.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"items":      cart.Items,
		"totalPrice": cart.TotalPrice,
		"updatedAt":  cart.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved models.Cart
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": cart.ID}, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
