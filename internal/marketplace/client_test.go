package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, tokenCalls *int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("token exchange used %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse token form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type %q", r.Form.Get("grant_type"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/", handler)
	return httptest.NewServer(mux)
}

func newTestClient(srv *httptest.Server) Client {
	tm := NewTokenManager(srv.Client(), srv.URL+"/oauth/token", "client-id", "secret")
	return NewClient(srv.Client(), srv.URL, tm)
}

func TestClient_FetchOrders(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if r.URL.Query().Get("since") == "" {
			t.Error("missing since query parameter")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]any{
				{
					"order_id":          "ORD-1",
					"item_sku":          "CAM-01",
					"sale_date":         "2026-03-10",
					"sale_price":        "80.00",
					"platform_fee_rate": "0.13",
					"tax_collected":     "6.40",
				},
			},
		})
	})
	defer srv.Close()

	orders, err := newTestClient(srv).FetchOrders(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].ItemSKU != "CAM-01" {
		t.Errorf("expected SKU CAM-01, got %q", orders[0].ItemSKU)
	}
	if orders[0].SalePrice.StringFixed(2) != "80.00" {
		t.Errorf("expected sale price 80.00, got %s", orders[0].SalePrice)
	}
}

func TestClient_TokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"orders": []any{}})
	})
	defer srv.Close()

	c := newTestClient(srv)
	for i := 0; i < 3; i++ {
		if _, err := c.FetchOrders(context.Background(), time.Now()); err != nil {
			t.Fatalf("FetchOrders %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 1 {
		t.Errorf("expected a single token exchange, got %d", got)
	}
}

func TestClient_RetriesOnceOnExpiredToken(t *testing.T) {
	var tokenCalls, apiCalls int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&apiCalls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": "token_expired", "message": "expired"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"orders": []any{}})
	})
	defer srv.Close()

	if _, err := newTestClient(srv).FetchOrders(context.Background(), time.Now()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&apiCalls); got != 2 {
		t.Errorf("expected 2 API calls (fail + retry), got %d", got)
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 2 {
		t.Errorf("expected 2 token exchanges (initial + refresh), got %d", got)
	}
}

func TestClient_PublishListing(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var draft ListingDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode draft: %v", err)
		}
		if draft.SKU != "CAM-01" {
			t.Errorf("expected SKU CAM-01, got %q", draft.SKU)
		}
		json.NewEncoder(w).Encode(Listing{ListingID: "LST-9", Status: "active"})
	})
	defer srv.Close()

	listing, err := newTestClient(srv).PublishListing(context.Background(), ListingDraft{
		SKU:   "CAM-01",
		Title: "Vintage Camera",
		Price: "80.00",
	})
	if err != nil {
		t.Fatalf("PublishListing failed: %v", err)
	}
	if listing.ListingID != "LST-9" {
		t.Errorf("expected listing LST-9, got %q", listing.ListingID)
	}
}

func TestClient_SurfacesAPIError(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "invalid_sku", "message": "unknown SKU"},
		})
	})
	defer srv.Close()

	_, err := newTestClient(srv).PublishListing(context.Background(), ListingDraft{SKU: "NOPE"})
	if err == nil {
		t.Fatal("expected API error, got nil")
	}
}
