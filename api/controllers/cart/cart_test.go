package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autostore/storefront-backend/api/middleware"
	cartsvc "github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/catalog"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
)

type stubProductLoader struct {
	product *catalog.Product
	err     error
}

func (s stubProductLoader) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return s.product, s.err
}

func sessionRequest(t *testing.T, method, target string, body string) (*http.Request, uuid.UUID) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	sessionID := uuid.New()
	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID)), sessionID
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeCartView(t *testing.T, resp *httptest.ResponseRecorder) CartView {
	t.Helper()
	var envelope struct {
		Data CartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemSuccess(t *testing.T) {
	sessions := cartsvc.NewSessions()
	loader := stubProductLoader{product: &catalog.Product{
		ID:        "p-1",
		Name:      "Go Mug",
		UnitPrice: decimal.RequireFromString("12.50"),
		Active:    true,
	}}
	handler := CartAddItem(sessions, loader, nil, nil)

	req, sessionID := sessionRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-1"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	view := decodeCartView(t, resp)
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", view.Items)
	}
	if view.Totals.Quantity != 1 {
		t.Fatalf("expected quantity 1 got %d", view.Totals.Quantity)
	}
	if sessions.Get(sessionID).Len() != 1 {
		t.Fatal("expected item persisted in session cart")
	}
}

func TestCartAddItemMergesQuantity(t *testing.T) {
	sessions := cartsvc.NewSessions()
	loader := stubProductLoader{product: &catalog.Product{
		ID:        "p-1",
		Name:      "Go Mug",
		UnitPrice: decimal.RequireFromString("12.50"),
		Active:    true,
	}}
	handler := CartAddItem(sessions, loader, nil, nil)

	req, sessionID := sessionRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-1"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"p-1"}`))
	second = second.WithContext(middleware.WithSessionID(second.Context(), sessionID))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, second)

	view := decodeCartView(t, resp)
	if len(view.Items) != 1 {
		t.Fatalf("expected merged entry, got %d entries", len(view.Items))
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 got %d", view.Items[0].Quantity)
	}
	if !view.Totals.Price.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected total 25.00 got %s", view.Totals.Price)
	}
}

func TestCartAddItemInactiveProduct(t *testing.T) {
	sessions := cartsvc.NewSessions()
	loader := stubProductLoader{product: &catalog.Product{ID: "p-1", Active: false}}
	handler := CartAddItem(sessions, loader, nil, nil)

	req, sessionID := sessionRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-1"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if sessions.Get(sessionID).Len() != 0 {
		t.Fatal("inactive product must not enter the cart")
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	sessions := cartsvc.NewSessions()
	loader := stubProductLoader{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(sessions, loader, nil, nil)

	req, _ := sessionRequest(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"missing"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartAddItemMissingProductID(t *testing.T) {
	handler := CartAddItem(cartsvc.NewSessions(), stubProductLoader{}, nil, nil)

	req, _ := sessionRequest(t, http.MethodPost, "/api/v1/cart/items", `{}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchMissingSessionContext(t *testing.T) {
	handler := CartFetch(cartsvc.NewSessions(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartDecrementRemovesAtZero(t *testing.T) {
	sessions := cartsvc.NewSessions()
	sessionID := uuid.New()
	sessions.Get(sessionID).Add(cartsvc.LineItem{ID: "p-1", UnitPrice: decimal.RequireFromString("5.00")})

	handler := CartDecrementItem(sessions, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/p-1/decrement", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	req = withURLParam(req, "productId", "p-1")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	view := decodeCartView(t, resp)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Items)
	}
	if !view.Totals.Price.IsZero() || view.Totals.Quantity != 0 {
		t.Fatalf("expected zero totals got %+v", view.Totals)
	}
}

func TestCartClearEmptiesCart(t *testing.T) {
	sessions := cartsvc.NewSessions()
	sessionID := uuid.New()
	manager := sessions.Get(sessionID)
	manager.Add(cartsvc.LineItem{ID: "p-1", UnitPrice: decimal.RequireFromString("5.00")})
	manager.Add(cartsvc.LineItem{ID: "p-2", UnitPrice: decimal.RequireFromString("7.00")})

	handler := CartClear(sessions, nil, nil)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	view := decodeCartView(t, resp)
	if len(view.Items) != 0 || view.Totals.Quantity != 0 {
		t.Fatalf("expected cleared cart, got %+v", view)
	}
}
