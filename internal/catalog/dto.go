package catalog

import "github.com/shopmartlabs/shopmart-backend/pkg/models"

// ImageInput describes one image on a create/update payload.
type ImageInput struct {
	URL       string
	Alt       string
	IsPrimary bool
}

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name           string
	Description    string
	Price          float64
	OriginalPrice  *float64
	Category       string
	Brand          string
	Stock          int
	Images         []ImageInput
	Features       []string
	Specifications []models.Specification
	Tags           []string
	ShippingInfo   *models.ShippingInfo
	Warranty       *models.Warranty
	Slug           string
	IsActive       *bool
	IsFeatured     bool
	IsOnSale       bool
}

// UpdateProductInput carries a partial merge; nil fields stay untouched.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *float64
	OriginalPrice  *float64
	Category       *string
	Brand          *string
	Stock          *int
	Images         []ImageInput
	Features       []string
	Specifications []models.Specification
	Tags           []string
	ShippingInfo   *models.ShippingInfo
	Warranty       *models.Warranty
	IsActive       *bool
	IsFeatured     *bool
	IsOnSale       *bool
}

// ReviewInput carries one customer review for a product.
type ReviewInput struct {
	UserID   string
	UserName string
	Rating   int
	Comment  string
}

func imagesToModel(inputs []ImageInput) []models.ProductImage {
	if len(inputs) == 0 {
		return nil
	}
	images := make([]models.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.ProductImage{
			URL:       in.URL,
			Alt:       in.Alt,
			IsPrimary: in.IsPrimary,
		})
	}
	return images
}
