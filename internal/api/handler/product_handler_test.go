package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/microstore/auth-platform/internal/core/domain"
	"github.com/microstore/auth-platform/internal/core/ports"
)

type stubProductService struct {
	createFn func(ctx context.Context, input ports.ProductInput) (*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	listFn   func(ctx context.Context) ([]*domain.Product, error)
	updateFn func(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubProductService) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	return s.createFn(ctx, input)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProductService) Update(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestProductHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
			if input.Name != "Keyboard" || input.Price != 49.99 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Product{ID: "p1", Name: input.Name, Price: input.Price, Cost: input.Cost}, nil
		},
	}
	handler := NewProductHandler(stub)

	body := strings.NewReader(`{"name":"Keyboard","description":"mechanical","price":49.99,"cost":20}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "p1" || resp["name"] != "Keyboard" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	body := strings.NewReader(`{"description":"mechanical","price":49.99}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Create(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		getFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	_ = handler.Get(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductHandler_List_Empty(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context) ([]*domain.Product, error) {
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Empty catalog renders as [], not null.
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestProductHandler_Delete_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "p1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/products/p1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
