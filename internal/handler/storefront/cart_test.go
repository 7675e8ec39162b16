package storefront

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/okonkwolabs/kasuwa/internal/router"
	"github.com/okonkwolabs/kasuwa/internal/service"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
	"github.com/okonkwolabs/kasuwa/internal/tax"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCartService implements domain.CartService for testing
type mockCartService struct {
	addFunc            func(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error)
	removeFunc         func(ctx context.Context, id string) (*domain.CartSummary, error)
	updateQuantityFunc func(ctx context.Context, id string, quantity int) (*domain.CartSummary, error)
	clearFunc          func(ctx context.Context) error
	summaryFunc        func() *domain.CartSummary
}

func (m *mockCartService) Add(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, item)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) Remove(ctx context.Context, id string) (*domain.CartSummary, error) {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, id)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.CartSummary, error) {
	if m.updateQuantityFunc != nil {
		return m.updateQuantityFunc(ctx, id, quantity)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) Clear(ctx context.Context) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx)
	}
	return nil
}

func (m *mockCartService) ItemCount(id string) int { return 0 }

func (m *mockCartService) Summary() *domain.CartSummary {
	if m.summaryFunc != nil {
		return m.summaryFunc()
	}
	return &domain.CartSummary{}
}

func (m *mockCartService) Subscribe(fn func(domain.CartSummary)) func() { return func() {} }

func newCartTestHandler(t *testing.T, cart domain.CartService) *CartHandler {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	prefs := service.NewPrefsService(context.Background(), store, testLogger())
	return NewCartHandler(cart, prefs, shipping.NewFlatRateProvider(250000, 10000000), tax.NewNoTaxCalculator(), testLogger())
}

func TestCartHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		addFunc    func(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error)
		wantStatus int
	}{
		{
			name: "valid item",
			body: `{"id":"sku-1","name":"Tote","unit_price":450000,"quantity":1}`,
			addFunc: func(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error) {
				return &domain.CartSummary{
					Items:          []domain.CartLineItem{item},
					TotalItemCount: 1,
					TotalPrice:     450000,
				}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"id":"sku-1","name":"Tote","color":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "service rejects item",
			body: `{"id":"","name":""}`,
			addFunc: func(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error) {
				return nil, domain.ErrInvalidLineItem
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCartTestHandler(t, &mockCartService{addFunc: tt.addFunc})

			req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Add(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCartHandler_View(t *testing.T) {
	cart := &mockCartService{
		summaryFunc: func() *domain.CartSummary {
			return &domain.CartSummary{
				Items: []domain.CartLineItem{
					{ID: "sku-1", Name: "Tote", UnitPrice: 450000, Quantity: 2},
				},
				TotalItemCount: 2,
				TotalPrice:     900000,
			}
		},
	}
	h := newCartTestHandler(t, cart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	h.View(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var summary domain.CartSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.TotalPrice != 900000 {
		t.Errorf("expected total 900000, got %d", summary.TotalPrice)
	}
}

func TestCartHandler_Estimate(t *testing.T) {
	cart := &mockCartService{
		summaryFunc: func() *domain.CartSummary {
			return &domain.CartSummary{
				Items: []domain.CartLineItem{
					{ID: "sku-1", Name: "Tote", UnitPrice: 450000, Quantity: 2},
				},
				TotalItemCount: 2,
				TotalPrice:     900000,
			}
		},
	}
	h := newCartTestHandler(t, cart)

	req := httptest.NewRequest(http.MethodGet, "/cart/estimate", nil)
	w := httptest.NewRecorder()
	h.Estimate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var breakdown domain.PriceBreakdown
	if err := json.Unmarshal(w.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if breakdown.Subtotal != 900000 {
		t.Errorf("expected subtotal 900000, got %d", breakdown.Subtotal)
	}
	if breakdown.ShippingFee != 250000 {
		t.Errorf("expected shipping fee 250000, got %d", breakdown.ShippingFee)
	}
	if breakdown.GrandTotal != 1150000 {
		t.Errorf("expected grand total 1150000, got %d", breakdown.GrandTotal)
	}
}

func TestCartHandler_UpdateQuantityPathValue(t *testing.T) {
	var gotID string
	var gotQuantity int
	cart := &mockCartService{
		updateQuantityFunc: func(ctx context.Context, id string, quantity int) (*domain.CartSummary, error) {
			gotID = id
			gotQuantity = quantity
			return &domain.CartSummary{}, nil
		},
	}
	h := newCartTestHandler(t, cart)

	r := router.New()
	r.Put("/cart/items/{id}", h.UpdateQuantity)

	req := httptest.NewRequest(http.MethodPut, "/cart/items/sku-7", strings.NewReader(`{"quantity":3}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotID != "sku-7" || gotQuantity != 3 {
		t.Errorf("expected sku-7/3, got %s/%d", gotID, gotQuantity)
	}
}

func TestCartHandler_ButtonPosition(t *testing.T) {
	h := newCartTestHandler(t, &mockCartService{})

	req := httptest.NewRequest(http.MethodPut, "/cart/button-position",
		strings.NewReader(`{"corner":"bottom_left","offset_x":24,"offset_y":80}`))
	w := httptest.NewRecorder()
	h.SetButtonPosition(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/cart/button-position", nil)
	w = httptest.NewRecorder()
	h.ButtonPosition(w, req)

	var pos service.CartButtonPosition
	if err := json.Unmarshal(w.Body.Bytes(), &pos); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if pos.Corner != service.CornerBottomLeft || pos.OffsetY != 80 {
		t.Errorf("unexpected position %+v", pos)
	}
}

func TestCartHandler_InvalidCorner(t *testing.T) {
	h := newCartTestHandler(t, &mockCartService{})

	req := httptest.NewRequest(http.MethodPut, "/cart/button-position",
		strings.NewReader(`{"corner":"center"}`))
	w := httptest.NewRecorder()
	h.SetButtonPosition(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
