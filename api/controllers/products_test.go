package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmartlabs/shopmart-backend/internal/catalog"
	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/logger"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()

	t.Run("created", func(t *testing.T) {
		stub := &stubCatalogService{}
		body := `{"name":"Wireless Mouse","description":"Ergonomic wireless mouse","price":19.99,"category":"electronics","brand":"Logi"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.createCalled {
			t.Fatal("expected Create to be invoked")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		body := `{"description":"d","price":10,"category":"electronics","brand":"b"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateProduct(&stubCatalogService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var payload struct {
			Error struct {
				Code    string            `json:"code"`
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeValidation) {
			t.Fatalf("unexpected code: %s", payload.Error.Code)
		}
		if _, ok := payload.Error.Details["name"]; !ok {
			t.Fatalf("expected name detail, got %v", payload.Error.Details)
		}
	})

	t.Run("missing description and brand", func(t *testing.T) {
		body := `{"name":"Wireless Mouse","price":19.99,"category":"electronics"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateProduct(&stubCatalogService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload struct {
			Error struct {
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		for _, field := range []string{"description", "brand"} {
			if _, ok := payload.Error.Details[field]; !ok {
				t.Fatalf("expected %s detail, got %v", field, payload.Error.Details)
			}
		}
	})

	t.Run("nil service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		CreateProduct(nil, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestGetProduct(t *testing.T) {
	logg := testLogger()

	t.Run("not found", func(t *testing.T) {
		stub := &stubCatalogService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		rec := serveWithURLParam(t, GetProduct(stub, logg), http.MethodGet, "id", primitive.NewObjectID().Hex(), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("found", func(t *testing.T) {
		product := &models.Product{ID: primitive.NewObjectID(), Name: "Desk", Price: 100}
		stub := &stubCatalogService{getProduct: product}
		rec := serveWithURLParam(t, GetProduct(stub, logg), http.MethodGet, "id", product.ID.Hex(), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got models.Product
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.Name != "Desk" {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	logg := testLogger()
	stub := &stubCatalogService{}

	rec := serveWithURLParam(t, DeleteProduct(stub, logg), http.MethodDelete, "id", primitive.NewObjectID().Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "product deleted") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if !stub.deleteCalled {
		t.Fatal("expected Delete to be invoked")
	}
}

func TestAddProductReviewValidation(t *testing.T) {
	logg := testLogger()

	body := `{"userId":"u1","userName":"Sam","rating":7,"comment":"x"}`
	rec := serveWithURLParam(t, AddProductReview(&stubCatalogService{}, logg), http.MethodPost, "id", primitive.NewObjectID().Hex(), body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", rec.Code)
	}
}

func serveWithURLParam(t *testing.T, handler http.HandlerFunc, method, param, value, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(param, value)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type stubCatalogService struct {
	createCalled bool
	deleteCalled bool
	getProduct   *models.Product
	getErr       error
}

func (s *stubCatalogService) Create(_ context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	s.createCalled = true
	return &models.Product{ID: primitive.NewObjectID(), Name: input.Name, Price: input.Price}, nil
}

func (s *stubCatalogService) List(context.Context, string) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (s *stubCatalogService) Get(context.Context, string) (*models.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getProduct, nil
}

func (s *stubCatalogService) Update(context.Context, string, catalog.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) Delete(context.Context, string) error {
	s.deleteCalled = true
	return nil
}

func (s *stubCatalogService) AdjustStock(context.Context, string, int) (*models.Product, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) AddReview(context.Context, string, catalog.ReviewInput) (*models.Product, error) {
	panic("unimplemented")
}
