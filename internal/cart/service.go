package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

// CartRepository is the persistence surface the service needs.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
}

// ProductResolver looks up live product documents for pricing. Missing
// ids are simply absent from the result, not an error.
type ProductResolver interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo     CartRepository
	Products ProductResolver
}

// Service exposes the per-user cart operations. Every returned view
// carries a total recomputed from live product prices.
type Service interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*View, error)
	Get(ctx context.Context, userID string) (*View, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, productID string) (*View, error)
	Clear(ctx context.Context, userID string) (*View, error)
}

// View is the cart as returned to clients: items joined with their
// live product data plus the derived totals.
type View struct {
	ID         string     `json:"id,omitempty"`
	UserID     string     `json:"userId"`
	Items      []ItemView `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
}

// ItemView is one cart line. Product is nil when the referenced
// product no longer exists; such lines contribute nothing to the total.
type ItemView struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product,omitempty"`
	LineTotal float64         `json:"lineTotal"`
}

type service struct {
	repo     CartRepository
	products ProductResolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product resolver is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		locks:    map[string]*sync.Mutex{},
	}, nil
}

// AddItem puts a product in the user's cart, accumulating the quantity
// when the product is already present. A cart document is created on
// first use.
func (s *service) AddItem(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	unlock := s.lockUser(userID)
	defer unlock()

	resolved, err := s.products.FindByIDs(ctx, []primitive.ObjectID{oid})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product")
	}
	if _, ok := resolved[oid]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == oid {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: oid, Quantity: quantity})
	}

	return s.settle(ctx, cart)
}

// Get returns the user's cart priced against the live catalog. Reads
// settle the document too, so a stale stored total self-heals.
func (s *service) Get(ctx context.Context, userID string) (*View, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, cart)
}

// UpdateItem replaces the quantity of a cart line. A quantity of zero
// or less removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == oid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	return s.settle(ctx, cart)
}

// RemoveItem drops a product from the cart. Removing a product that is
// not in the cart is a no-op, not an error.
func (s *service) RemoveItem(ctx context.Context, userID, productID string) (*View, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != oid {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.settle(ctx, cart)
}

// Clear empties the cart but keeps the document, so the user's cart id
// survives a checkout.
func (s *service) Clear(ctx context.Context, userID string) (*View, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []models.CartItem{}
	return s.settle(ctx, cart)
}

// settle prunes non-positive lines, recomputes the total against live
// product prices, persists the document, and builds the client view.
// Lines whose product no longer resolves stay in the document but are
// priced at zero.
func (s *service) settle(ctx context.Context, cart *models.Cart) (*View, error) {
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	resolved := map[primitive.ObjectID]models.Product{}
	if len(ids) > 0 {
		var err error
		resolved, err = s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart products")
		}
	}

	total := decimal.Zero
	items := make([]ItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		view := ItemView{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
		}
		if product, ok := resolved[item.ProductID]; ok {
			line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(line)
			view.LineTotal, _ = line.Float64()
			p := product
			view.Product = &p
		}
		items = append(items, view)
	}
	cart.TotalPrice, _ = total.Float64()

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	return &View{
		ID:         saved.ID.Hex(),
		UserID:     saved.UserID,
		Items:      items,
		TotalPrice: saved.TotalPrice,
	}, nil
}

func (s *service) load(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) loadOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	created, err := s.repo.Insert(ctx, &models.Cart{UserID: userID, Items: []models.CartItem{}})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// lockUser serializes mutations per user so concurrent requests cannot
// clobber each other's read-modify-write cycles.
func (s *service) lockUser(userID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func requireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return userID, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return oid, nil
}
