//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:3000")

type phone struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type cartItem struct {
	PhoneID  int `json:"phoneId"`
	Quantity int `json:"quantity"`
}

type cartLine struct {
	PhoneID    int     `json:"phoneId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// Runs against a live server; creates its own phone so it does not depend on
// what other callers have done to the seed catalog.
func TestSystem_E2E_CartReservations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var created phone
	doJSON(t, http.MethodPost, baseURL+"/phones", map[string]any{
		"name":  fmt.Sprintf("e2e-%d", time.Now().UnixNano()),
		"brand": "E2E",
		"price": 250,
		"stock": 6,
	}, &created, http.StatusCreated)
	if created.ID == 0 {
		t.Fatalf("phone id missing: %+v", created)
	}
	phoneURL := fmt.Sprintf("%s/phones/%d", baseURL, created.ID)
	t.Cleanup(func() { doJSON(t, http.MethodDelete, phoneURL, nil, nil, http.StatusOK) })

	var cart []cartItem
	doJSON(t, http.MethodPost, baseURL+"/cart", map[string]any{"phoneId": created.ID, "quantity": 2}, &cart, http.StatusOK)
	doJSON(t, http.MethodPost, baseURL+"/cart", map[string]any{"phoneId": created.ID, "quantity": 3}, &cart, http.StatusOK)
	doJSON(t, http.MethodPost, baseURL+"/cart", map[string]any{"phoneId": created.ID, "quantity": 2}, nil, http.StatusBadRequest)

	var got phone
	doJSON(t, http.MethodGet, phoneURL, nil, &got, http.StatusOK)
	if got.Stock != 1 {
		t.Fatalf("stock=%d want=1", got.Stock)
	}

	var lines []cartLine
	doJSON(t, http.MethodGet, baseURL+"/cart", nil, &lines, http.StatusOK)
	found := false
	for _, l := range lines {
		if l.PhoneID == created.ID {
			found = true
			if l.Quantity != 5 || l.TotalPrice != 1250 {
				t.Fatalf("line=%+v", l)
			}
		}
	}
	if !found {
		t.Fatalf("phone %d missing from cart %+v", created.ID, lines)
	}

	doJSON(t, http.MethodDelete, fmt.Sprintf("%s/cart?phoneId=%d", baseURL, created.ID), nil, nil, http.StatusOK)
	doJSON(t, http.MethodGet, phoneURL, nil, &got, http.StatusOK)
	if got.Stock != 6 {
		t.Fatalf("stock=%d want=6 after removal", got.Stock)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
