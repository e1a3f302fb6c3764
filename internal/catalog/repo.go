package catalog

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

const collectionName = "products"

// Repository persists product documents.
type Repository struct {
	col *mongo.Collection
}

// NewRepository binds a product repo to the shared Mongo client.
func NewRepository(client *mongodb.Client) *Repository {
	return &Repository{col: client.Collection(collectionName)}
}

// EnsureIndexes creates the indexes product queries rely on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	})
	return err
}

// Insert writes a new product and returns it with its assigned id.
func (r *Repository) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// FindAll returns every product document.
func (r *Repository) FindAll(ctx context.Context) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory returns the active products in one category.
func (r *Repository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{"category": category, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads one product; mongo.ErrNoDocuments when absent.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads products in bulk, keyed by id. Missing ids are
// simply absent from the map.
func (r *Repository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]models.Product{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}

// UpdateByID applies a partial $set merge and returns the updated document.
func (r *Repository) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteByID removes one product; mongo.ErrNoDocuments when absent.
func (r *Repository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdjustStock atomically adds delta to the stock counter, floored at zero.
func (r *Repository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AddReview appends a review and stores the recomputed rating aggregate.
func (r *Repository) AddReview(ctx context.Context, id primitive.ObjectID, review models.Review, rating float64, numReviews int) (*models.Product, error) {
	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"rating":     rating,
			"numReviews": numReviews,
			"updatedAt":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}
