package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

func TestAddItemCreatesCartAndAccumulates(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(19.99)

	view, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 2, view.Items[0].Quantity)
	require.InDelta(t, 39.98, view.TotalPrice, 1e-9)

	view, err = fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 5, view.Items[0].Quantity)
	require.InDelta(t, 99.95, view.TotalPrice, 1e-9)
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(10)

	_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 0)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = fix.svc.AddItem(context.Background(), "u1", "nope", 1)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = fix.svc.AddItem(context.Background(), "", pid.Hex(), 1)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = fix.svc.AddItem(context.Background(), "u1", primitive.NewObjectID().Hex(), 1)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetMissingCartIsNotFound(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	_, err := fix.svc.Get(context.Background(), "nobody")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetPrunesNonPositiveStoredLines(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	keep := fix.seedProduct(10)
	zero := fix.seedProduct(5)
	negative := fix.seedProduct(7)

	// A document written by an older build can still carry such lines.
	fix.repo.byUser["u1"] = &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: "u1",
		Items: []models.CartItem{
			{ProductID: keep, Quantity: 2},
			{ProductID: zero, Quantity: 0},
			{ProductID: negative, Quantity: -3},
		},
	}

	view, err := fix.svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, keep.Hex(), view.Items[0].ProductID)
	require.InDelta(t, 20, view.TotalPrice, 1e-9)

	stored := fix.repo.byUser["u1"]
	require.Len(t, stored.Items, 1)
	require.Equal(t, keep, stored.Items[0].ProductID)
	require.InDelta(t, 20, stored.TotalPrice, 1e-9)
}

func TestGetReflectsLivePrices(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(100)

	_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 2)
	require.NoError(t, err)

	fix.reprice(pid, 150)

	view, err := fix.svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.InDelta(t, 300, view.TotalPrice, 1e-9)
}

func TestUpdateItemReplacesAndRemoves(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(100)

	_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 2)
	require.NoError(t, err)

	view, err := fix.svc.UpdateItem(context.Background(), "u1", pid.Hex(), 5)
	require.NoError(t, err)
	require.Equal(t, 5, view.Items[0].Quantity)
	require.InDelta(t, 500, view.TotalPrice, 1e-9)

	view, err = fix.svc.UpdateItem(context.Background(), "u1", pid.Hex(), 0)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Zero(t, view.TotalPrice)

	_, err = fix.svc.UpdateItem(context.Background(), "u1", pid.Hex(), 1)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(100)
	other := fix.seedProduct(7)

	_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 2)
	require.NoError(t, err)

	view, err := fix.svc.RemoveItem(context.Background(), "u1", other.Hex())
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.InDelta(t, 200, view.TotalPrice, 1e-9)

	view, err = fix.svc.RemoveItem(context.Background(), "u1", pid.Hex())
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Zero(t, view.TotalPrice)
}

func TestClearKeepsDocument(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(40)

	first, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 3)
	require.NoError(t, err)

	cleared, err := fix.svc.Clear(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, cleared.Items)
	require.Zero(t, cleared.TotalPrice)
	require.Equal(t, first.ID, cleared.ID)

	stored := fix.repo.byUser["u1"]
	require.NotNil(t, stored)
	require.Empty(t, stored.Items)
}

func TestDeletedProductPricedAtZero(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(100)
	gone := fix.seedProduct(50)

	_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 1)
	require.NoError(t, err)
	_, err = fix.svc.AddItem(context.Background(), "u1", gone.Hex(), 4)
	require.NoError(t, err)

	fix.deleteProduct(gone)

	view, err := fix.svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.InDelta(t, 100, view.TotalPrice, 1e-9)
	for _, item := range view.Items {
		if item.ProductID == gone.Hex() {
			require.Nil(t, item.Product)
			require.Zero(t, item.LineTotal)
		}
	}
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	pid := fix.seedProduct(1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fix.svc.AddItem(context.Background(), "u1", pid.Hex(), 1)
			if err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	view, err := fix.svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 20, view.Items[0].Quantity)
	require.InDelta(t, 20, view.TotalPrice, 1e-9)
}

type fixture struct {
	svc      Service
	repo     *stubCartRepo
	products *stubResolver
}

func newFixture() *fixture {
	repo := newStubCartRepo()
	products := newStubResolver()
	svc, err := NewService(ServiceParams{Repo: repo, Products: products})
	if err != nil {
		panic(err)
	}
	return &fixture{svc: svc, repo: repo, products: products}
}

func (f *fixture) seedProduct(price float64) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products.mu.Lock()
	f.products.byID[id] = models.Product{ID: id, Name: "p-" + id.Hex(), Price: price, IsActive: true}
	f.products.mu.Unlock()
	return id
}

func (f *fixture) reprice(id primitive.ObjectID, price float64) {
	f.products.mu.Lock()
	p := f.products.byID[id]
	p.Price = price
	f.products.byID[id] = p
	f.products.mu.Unlock()
}

func (f *fixture) deleteProduct(id primitive.ObjectID) {
	f.products.mu.Lock()
	delete(f.products.byID, id)
	f.products.mu.Unlock()
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

type stubCartRepo struct {
	mu     sync.Mutex
	byUser map[string]*models.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byUser: map[string]*models.Cart{}}
}

func (s *stubCartRepo) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.byUser[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *cart
	clone.Items = append([]models.CartItem(nil), cart.Items...)
	return &clone, nil
}

func (s *stubCartRepo) Insert(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	clone := *cart
	s.byUser[cart.UserID] = &clone
	return cart, nil
}

func (s *stubCartRepo) Save(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byUser[cart.UserID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	stored.TotalPrice = cart.TotalPrice
	clone := *stored
	return &clone, nil
}

type stubResolver struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Product
}

func newStubResolver() *stubResolver {
	return &stubResolver{byID: map[primitive.ObjectID]models.Product{}}
}

func (s *stubResolver) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
