package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopmartlabs/shopmart-backend/api/responses"
	"github.com/shopmartlabs/shopmart-backend/api/validators"
	"github.com/shopmartlabs/shopmart-backend/internal/catalog"
	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/logger"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

// CreateProduct handles catalog product creation.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts returns the catalog, optionally filtered by ?category=.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := chi.URLParam(r, "id")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, id)
		}

		product, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "id"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product from the catalog.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "product deleted")
	}
}

// AdjustProductStock applies a signed stock delta to a product.
func AdjustProductStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), chi.URLParam(r, "id"), payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AddProductReview appends a customer review to a product.
func AddProductReview(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload reviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddReview(r.Context(), chi.URLParam(r, "id"), catalog.ReviewInput{
			UserID:   payload.UserID,
			UserName: payload.UserName,
			Rating:   payload.Rating,
			Comment:  payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type imageRequest struct {
	URL       string `json:"url" validate:"required"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

type createProductRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Description    string                 `json:"description" validate:"required"`
	Price          float64                `json:"price" validate:"gte=0"`
	OriginalPrice  *float64               `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Category       string                 `json:"category" validate:"required"`
	Brand          string                 `json:"brand" validate:"required"`
	Stock          int                    `json:"stock,omitempty" validate:"gte=0"`
	Images         []imageRequest         `json:"images,omitempty"`
	Features       []string               `json:"features,omitempty"`
	Specifications []models.Specification `json:"specifications,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	ShippingInfo   *models.ShippingInfo   `json:"shippingInfo,omitempty"`
	Warranty       *models.Warranty       `json:"warranty,omitempty"`
	Slug           string                 `json:"slug,omitempty"`
	IsActive       *bool                  `json:"isActive,omitempty"`
	IsFeatured     bool                   `json:"isFeatured,omitempty"`
	IsOnSale       bool                   `json:"isOnSale,omitempty"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Category:       r.Category,
		Brand:          r.Brand,
		Stock:          r.Stock,
		Images:         toImageInputs(r.Images),
		Features:       r.Features,
		Specifications: r.Specifications,
		Tags:           r.Tags,
		ShippingInfo:   r.ShippingInfo,
		Warranty:       r.Warranty,
		Slug:           r.Slug,
		IsActive:       r.IsActive,
		IsFeatured:     r.IsFeatured,
		IsOnSale:       r.IsOnSale,
	}
}

type updateProductRequest struct {
	Name           *string                `json:"name,omitempty"`
	Description    *string                `json:"description,omitempty"`
	Price          *float64               `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice  *float64               `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Category       *string                `json:"category,omitempty"`
	Brand          *string                `json:"brand,omitempty"`
	Stock          *int                   `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images         []imageRequest         `json:"images,omitempty"`
	Features       []string               `json:"features,omitempty"`
	Specifications []models.Specification `json:"specifications,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	ShippingInfo   *models.ShippingInfo   `json:"shippingInfo,omitempty"`
	Warranty       *models.Warranty       `json:"warranty,omitempty"`
	IsActive       *bool                  `json:"isActive,omitempty"`
	IsFeatured     *bool                  `json:"isFeatured,omitempty"`
	IsOnSale       *bool                  `json:"isOnSale,omitempty"`
}

func (r updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Category:       r.Category,
		Brand:          r.Brand,
		Stock:          r.Stock,
		Images:         toImageInputs(r.Images),
		Features:       r.Features,
		Specifications: r.Specifications,
		Tags:           r.Tags,
		ShippingInfo:   r.ShippingInfo,
		Warranty:       r.Warranty,
		IsActive:       r.IsActive,
		IsFeatured:     r.IsFeatured,
		IsOnSale:       r.IsOnSale,
	}
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type reviewRequest struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required"`
}

func toImageInputs(images []imageRequest) []catalog.ImageInput {
	if len(images) == 0 {
		return nil
	}
	inputs := make([]catalog.ImageInput, 0, len(images))
	for _, img := range images {
		inputs = append(inputs, catalog.ImageInput{
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
		})
	}
	return inputs
}
