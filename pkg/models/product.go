package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage is one entry of a product's ordered image list. Exactly
// one image carries the primary flag once the product is persisted.
type ProductImage struct {
	URL       string `bson:"url" json:"url"`
	Alt       string `bson:"alt,omitempty" json:"alt,omitempty"`
	IsPrimary bool   `bson:"isPrimary" json:"isPrimary"`
}

// Specification is a key/value technical attribute.
type Specification struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// ShippingInfo describes the shipping terms attached to a product.
type ShippingInfo struct {
	FreeShipping  bool    `bson:"freeShipping" json:"freeShipping"`
	ShippingCost  float64 `bson:"shippingCost" json:"shippingCost"`
	EstimatedDays int     `bson:"estimatedDays" json:"estimatedDays"`
}

// Warranty describes optional warranty coverage.
type Warranty struct {
	Available      bool   `bson:"available" json:"available"`
	DurationMonths int    `bson:"durationMonths,omitempty" json:"durationMonths,omitempty"`
	Details        string `bson:"details,omitempty" json:"details,omitempty"`
}

// Review is a customer review embedded in the product document.
type Review struct {
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName" json:"userName"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	Helpful   int       `bson:"helpful" json:"helpful"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Product is a catalog entry.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice *float64           `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Category      string             `bson:"category" json:"category"`
	Brand         string             `bson:"brand" json:"brand"`
	Stock         int                `bson:"stock" json:"stock"`

	Images []ProductImage `bson:"images,omitempty" json:"images,omitempty"`

	Rating     float64  `bson:"rating" json:"rating"`
	NumReviews int      `bson:"numReviews" json:"numReviews"`
	Reviews    []Review `bson:"reviews,omitempty" json:"reviews,omitempty"`

	Features       []string        `bson:"features,omitempty" json:"features,omitempty"`
	Specifications []Specification `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Tags           []string        `bson:"tags,omitempty" json:"tags,omitempty"`

	ShippingInfo *ShippingInfo `bson:"shippingInfo,omitempty" json:"shippingInfo,omitempty"`
	Warranty     *Warranty     `bson:"warranty,omitempty" json:"warranty,omitempty"`

	Slug       string `bson:"slug,omitempty" json:"slug,omitempty"`
	IsActive   bool   `bson:"isActive" json:"isActive"`
	IsFeatured bool   `bson:"isFeatured" json:"isFeatured"`
	IsOnSale   bool   `bson:"isOnSale" json:"isOnSale"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
