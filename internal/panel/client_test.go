package panel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func TestRequestAttachesBearerAndJSONHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"success":true,"data":{"id":1,"name":"Basic"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok-123"))
	var out ServiceType
	if err := c.getObject(context.Background(), "/ServiceTypes/1", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
	if gotRequestID == "" {
		t.Fatalf("expected a request id header")
	}
	if out.ID != 1 || out.Name != "Basic" {
		t.Fatalf("unexpected decoded object: %+v", out)
	}
}

func TestRequestWithoutTokenOmitsAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	if _, err := c.ActiveRegistrars(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestNonSuccessStatusUsesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Domain name is invalid"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	_, err := c.CheckAvailability(context.Background(), "5", "bad domain")
	var ae *apperr.AppError
	if !apperr.As(err, &ae) {
		t.Fatalf("expected app error, got %v", err)
	}
	if ae.Code != apperr.CodeAPI || ae.Message != "Domain name is invalid" {
		t.Fatalf("unexpected error: code=%s message=%q", ae.Code, ae.Message)
	}
}

func TestNonSuccessStatusFallsBackToTitleThenGeneric(t *testing.T) {
	bodies := []struct {
		body string
		want string
	}{
		{`{"title":"Not Found"}`, "Not Found"},
		{`not json`, "Request failed with status 404"},
	}
	for _, tc := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(tc.body))
		}))
		c := NewClient(srv.URL, staticToken(""))
		_, err := c.TldByExtension(context.Background(), "zz")
		srv.Close()
		var ae *apperr.AppError
		if !apperr.As(err, &ae) || ae.Message != tc.want {
			t.Fatalf("body %q: expected %q, got %v", tc.body, tc.want, err)
		}
	}
}

func TestEnvelopeSuccessFalseOn2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Customer not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	_, _, err := c.SearchCustomers(context.Background(), "ghost")
	var ae *apperr.AppError
	if !apperr.As(err, &ae) {
		t.Fatalf("expected app error, got %v", err)
	}
	if ae.Code != apperr.CodeAPI || ae.Message != "Customer not found" {
		t.Fatalf("unexpected error: code=%s message=%q", ae.Code, ae.Message)
	}
}

func TestTransportFailureIsUniformNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, staticToken(""))
	_, err := c.ActiveHostingPackages(context.Background())
	var ae *apperr.AppError
	if !apperr.As(err, &ae) {
		t.Fatalf("expected app error, got %v", err)
	}
	if ae.Code != apperr.CodeNetwork || ae.Message != NetworkErrMessage {
		t.Fatalf("unexpected error: code=%s message=%q", ae.Code, ae.Message)
	}
	if !ae.Retryable {
		t.Fatalf("network failures should be marked retryable")
	}
}

func TestBillingCyclesSortedBySortOrderThenDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":3,"name":"Biennial","durationInDays":730,"sortOrder":2},
			{"id":2,"name":"Annual","durationInDays":365,"sortOrder":2},
			{"id":1,"name":"Monthly","durationInDays":30,"sortOrder":1}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	cycles, err := c.BillingCycles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(cycles))
	}
	if cycles[0].Name != "Monthly" || cycles[1].Name != "Annual" || cycles[2].Name != "Biennial" {
		t.Fatalf("unexpected order: %v %v %v", cycles[0].Name, cycles[1].Name, cycles[2].Name)
	}
}

func TestCalculatePricePostsBody(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true,"data":{"finalPrice":12.5,"currency":"EUR"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	quote, err := c.CalculatePrice(context.Background(), PriceRequest{
		TldID: 7, OperationType: OperationRegistration, Years: 2, IsFirstYear: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/tld-pricing/calculate" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if quote.FinalPrice != 12.5 || quote.Currency != "EUR" {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}
