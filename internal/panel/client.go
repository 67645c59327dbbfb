package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/hansos/DR-Admin-sub001/internal/auth"
	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/rate"
)

const (
	apiPrefix = "/api/v1"

	responseLimitBytes      = int64(2 << 20)
	errorResponseLimitBytes = int64(1 << 20)

	// NetworkErrMessage is the uniform operator-facing message for any
	// transport-level failure.
	NetworkErrMessage = "Network error. Please try again."
)

// API is the surface the wizard steps consume. *Client implements it
// against the reseller panel backend.
type API interface {
	ActiveRegistrars(ctx context.Context) ([]Registrar, error)
	CheckAvailability(ctx context.Context, registrarID, domain string) (Availability, error)
	SearchCustomers(ctx context.Context, query string) ([]Customer, *PageMeta, error)
	ActiveHostingPackages(ctx context.Context) ([]HostingPackage, error)
	BillingCycles(ctx context.Context) ([]BillingCycle, error)
	ServiceTypes(ctx context.Context) ([]ServiceType, error)
	Services(ctx context.Context) ([]Service, error)
	CustomerContacts(ctx context.Context, customerID int) ([]ContactPerson, error)
	TldByExtension(ctx context.Context, extension string) (Tld, error)
	CalculatePrice(ctx context.Context, req PriceRequest) (PriceQuote, error)
	InvoiceSummary(ctx context.Context, status string) (InvoiceTotals, error)
}

type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(baseURL string, tokens auth.TokenSource) *Client {
	// Cookie jar keeps the panel session cookie flowing alongside the
	// bearer token, matching how the hosted pages call the API.
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(120),
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name: "panel-api",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// request performs one API call and returns the raw 2xx body. Every
// failure mode collapses into an *apperr.AppError; callers never see a
// transport exception.
func (c *Client) request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.CodeNetwork, NetworkErrMessage, err)
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "failed encoding request body", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, r)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed building request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, &apperr.AppError{Code: apperr.CodeNetwork, Message: NetworkErrMessage, Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorResponseLimitBytes))
		msg := errorMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return nil, apperr.WithDetails(
			apperr.New(apperr.CodeAPI, msg),
			map[string]any{"status": resp.StatusCode},
		)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseLimitBytes))
	if err != nil {
		return nil, &apperr.AppError{Code: apperr.CodeNetwork, Message: NetworkErrMessage, Retryable: true, Cause: err}
	}
	if ok, msg := envelopeFailure(raw); ok {
		if msg == "" {
			msg = "Request failed"
		}
		return nil, apperr.New(apperr.CodeAPI, msg)
	}
	return raw, nil
}

// getObject fetches and decodes a single DTO, unwrapping a response
// envelope when present.
func (c *Client) getObject(ctx context.Context, path string, out any) error {
	raw, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeObject(raw, out)
}

// postObject posts a body and decodes the enveloped result.
func (c *Client) postObject(ctx context.Context, path string, body, out any) error {
	raw, err := c.request(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decodeObject(raw, out)
}

func decodeObject(raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(UnwrapData(raw), out); err != nil {
		return &apperr.AppError{Code: apperr.CodeNetwork, Message: NetworkErrMessage, Retryable: true, Cause: err}
	}
	return nil
}
