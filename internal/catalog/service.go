package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

// ProductRepository is the persistence surface the service needs.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (*models.Product, error)
	AddReview(ctx context.Context, id primitive.ObjectID, review models.Review, rating float64, numReviews int) (*models.Product, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo ProductRepository
}

// Service exposes business rules for catalog management.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error)
	AddReview(ctx context.Context, id string, input ReviewInput) (*models.Product, error)
}

type service struct {
	repo ProductRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Create validates and persists a new product. The slug is derived from
// the name when absent and the first image is promoted to primary when
// none is flagged, both before the write.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		Name:           name,
		Description:    input.Description,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		Category:       strings.TrimSpace(input.Category),
		Brand:          strings.TrimSpace(input.Brand),
		Stock:          input.Stock,
		Images:         promotePrimaryImage(imagesToModel(input.Images)),
		Features:       input.Features,
		Specifications: input.Specifications,
		Tags:           input.Tags,
		ShippingInfo:   input.ShippingInfo,
		Warranty:       input.Warranty,
		Slug:           slug,
		IsActive:       isActive,
		IsFeatured:     input.IsFeatured,
		IsOnSale:       input.IsOnSale,
	}

	created, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// List returns the catalog, optionally narrowed to the active products
// of one category.
func (s *service) List(ctx context.Context, category string) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	if category = strings.TrimSpace(category); category != "" {
		products, err = s.repo.FindByCategory(ctx, category)
	} else {
		products, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		set["price"] = *input.Price
	}
	if input.OriginalPrice != nil {
		set["originalPrice"] = *input.OriginalPrice
	}
	if input.Category != nil {
		set["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Brand != nil {
		set["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		set["stock"] = *input.Stock
	}
	if input.Images != nil {
		set["images"] = promotePrimaryImage(imagesToModel(input.Images))
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if input.Specifications != nil {
		set["specifications"] = input.Specifications
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.ShippingInfo != nil {
		set["shippingInfo"] = input.ShippingInfo
	}
	if input.Warranty != nil {
		set["warranty"] = input.Warranty
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		set["isFeatured"] = *input.IsFeatured
	}
	if input.IsOnSale != nil {
		set["isOnSale"] = *input.IsOnSale
	}
	if len(set) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	product, err := s.repo.UpdateByID(ctx, oid, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// AdjustStock applies a signed stock delta; the stored value never goes
// below zero.
func (s *service) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.AdjustStock(ctx, oid, delta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
	return product, nil
}

// AddReview appends a review and recomputes the rating average and count.
func (s *service) AddReview(ctx context.Context, id string, input ReviewInput) (*models.Product, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}

	product, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := models.Review{
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	sum := float64(input.Rating)
	for _, existing := range product.Reviews {
		sum += float64(existing.Rating)
	}
	count := len(product.Reviews) + 1
	rating := sum / float64(count)

	updated, err := s.repo.AddReview(ctx, oid, review, rating, count)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add review")
	}
	return updated, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return oid, nil
}

var slugStripper = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers the name and collapses non-alphanumeric runs to dashes.
func Slugify(name string) string {
	slug := slugStripper.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// promotePrimaryImage flags the first image as primary when none is.
func promotePrimaryImage(images []models.ProductImage) []models.ProductImage {
	if len(images) == 0 {
		return images
	}
	for _, img := range images {
		if img.IsPrimary {
			return images
		}
	}
	images[0].IsPrimary = true
	return images
}
