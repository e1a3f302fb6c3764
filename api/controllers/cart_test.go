package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	cartsvc "github.com/shopmartlabs/shopmart-backend/internal/cart"
	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
)

func TestAddToCart(t *testing.T) {
	logg := testLogger()
	pid := primitive.NewObjectID().Hex()

	t.Run("defaults quantity to one", func(t *testing.T) {
		stub := &stubCartService{}
		body := `{"userId":"u1","productId":"` + pid + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddToCart(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.addQuantity != 1 {
			t.Fatalf("expected quantity 1, got %d", stub.addQuantity)
		}
	})

	t.Run("missing ids", func(t *testing.T) {
		body := `{"quantity":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddToCart(&stubCartService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("negative quantity rejected downstream", func(t *testing.T) {
		stub := &stubCartService{addErr: pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")}
		body := `{"userId":"u1","productId":"` + pid + `","quantity":-3}`
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddToCart(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.addQuantity != -3 {
			t.Fatalf("expected -3 passed through, got %d", stub.addQuantity)
		}
	})
}

func TestGetCartNotFound(t *testing.T) {
	logg := testLogger()
	stub := &stubCartService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}

	rec := serveWithURLParam(t, GetCart(stub, logg), http.MethodGet, "userId", "u1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateCartItemRequiresQuantity(t *testing.T) {
	logg := testLogger()
	pid := primitive.NewObjectID().Hex()

	body := `{"userId":"u1","productId":"` + pid + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/cart/update", strings.NewReader(body))
	rec := httptest.NewRecorder()

	UpdateCartItem(&stubCartService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when quantity absent, got %d", rec.Code)
	}
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	logg := testLogger()
	pid := primitive.NewObjectID().Hex()
	stub := &stubCartService{}

	body := `{"userId":"u1","productId":"` + pid + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/cart/update", strings.NewReader(body))
	rec := httptest.NewRecorder()

	UpdateCartItem(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updateQuantity != 0 {
		t.Fatalf("expected zero quantity passed through, got %d", stub.updateQuantity)
	}
}

func TestClearCart(t *testing.T) {
	logg := testLogger()
	stub := &stubCartService{}

	body := `{"userId":"u1"}`
	req := httptest.NewRequest(http.MethodDelete, "/api/cart/clear", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ClearCart(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Message string       `json:"message"`
		Cart    cartsvc.View `json:"cart"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Message != "cart cleared" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
	if !stub.clearCalled {
		t.Fatal("expected Clear to be invoked")
	}
}

type stubCartService struct {
	addQuantity    int
	updateQuantity int
	clearCalled    bool
	addErr         error
	getErr         error
}

func (s *stubCartService) AddItem(_ context.Context, userID, productID string, quantity int) (*cartsvc.View, error) {
	s.addQuantity = quantity
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &cartsvc.View{UserID: userID, Items: []cartsvc.ItemView{{ProductID: productID, Quantity: quantity}}}, nil
}

func (s *stubCartService) Get(_ context.Context, userID string) (*cartsvc.View, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &cartsvc.View{UserID: userID, Items: []cartsvc.ItemView{}}, nil
}

func (s *stubCartService) UpdateItem(_ context.Context, userID, productID string, quantity int) (*cartsvc.View, error) {
	s.updateQuantity = quantity
	return &cartsvc.View{UserID: userID, Items: []cartsvc.ItemView{}}, nil
}

func (s *stubCartService) RemoveItem(_ context.Context, userID, productID string) (*cartsvc.View, error) {
	return &cartsvc.View{UserID: userID, Items: []cartsvc.ItemView{}}, nil
}

func (s *stubCartService) Clear(_ context.Context, userID string) (*cartsvc.View, error) {
	s.clearCalled = true
	return &cartsvc.View{UserID: userID, Items: []cartsvc.ItemView{}}, nil
}
