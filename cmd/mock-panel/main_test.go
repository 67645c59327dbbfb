package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultListenAddr(t *testing.T) {
	t.Setenv("MOCK_PANEL_LISTEN", "")
	if got := defaultListenAddr(); got != "127.0.0.1:8790" {
		t.Fatalf("expected localhost default, got %q", got)
	}

	t.Setenv("MOCK_PANEL_LISTEN", "0.0.0.0:8790")
	if got := defaultListenAddr(); got != "0.0.0.0:8790" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestDecodeJSONBodyEnforcesMaxBytes(t *testing.T) {
	body := `{"operationType":"` + strings.Repeat("a", int(maxRequestBodyBytes)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tld-pricing/calculate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	var payload struct {
		OperationType string `json:"operationType"`
	}
	err := decodeJSONBody(rr, req, &payload)
	if err == nil {
		t.Fatalf("expected max-bytes error")
	}
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		t.Fatalf("expected MaxBytesError, got %T", err)
	}
}

func TestAvailabilityEnvelopeShape(t *testing.T) {
	b := seed()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/Registrars/5/isavailable/taken.com", nil)
	rr := httptest.NewRecorder()
	b.handleAvailability(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Success bool `json:"Success"`
		Data    struct {
			IsAvailable    bool `json:"IsAvailable"`
			IsTldSupported bool `json:"IsTldSupported"`
		} `json:"Data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success {
		t.Fatalf("expected Success envelope")
	}
	if payload.Data.IsAvailable {
		t.Fatalf("taken.com should not be available")
	}
	if !payload.Data.IsTldSupported {
		t.Fatalf("com should be supported")
	}
}

func TestCustomerSearchNestsPaging(t *testing.T) {
	b := seed()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/Customers/search?query=acme", nil)
	rr := httptest.NewRecorder()
	b.handleCustomerSearch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Data       []json.RawMessage `json:"data"`
			TotalCount int               `json:"totalCount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Data.Data) != 2 || payload.Data.TotalCount != 2 {
		t.Fatalf("expected 2 acme matches, got %d (count %d)", len(payload.Data.Data), payload.Data.TotalCount)
	}
}
