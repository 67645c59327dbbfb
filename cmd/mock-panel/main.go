package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// The mock deliberately mixes response shapes and key casings the way
// the real panel's controllers do, so the CLI's tolerant decoding gets
// exercised end to end.

const maxRequestBodyBytes int64 = 1 << 20

type registrar struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type customer struct {
	ID           int    `json:"Id"`
	Name         string `json:"Name"`
	CustomerName string `json:"CustomerName"`
	Email        string `json:"Email"`
}

type hostingPackage struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthlyPrice"`
	YearlyPrice  float64 `json:"yearlyPrice"`
	IsActive     bool    `json:"isActive"`
}

type billingCycle struct {
	ID             int    `json:"Id"`
	Code           string `json:"Code"`
	Name           string `json:"Name"`
	DurationInDays int    `json:"DurationInDays"`
	SortOrder      int    `json:"SortOrder"`
}

type serviceType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type service struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ServiceTypeID int      `json:"serviceTypeId"`
	Price         *float64 `json:"price,omitempty"`
}

type contactPerson struct {
	ID     int    `json:"id"`
	RoleID int    `json:"roleId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type tld struct {
	ID        int    `json:"id"`
	Extension string `json:"extension"`
}

type backend struct {
	mu         sync.Mutex
	registrars []registrar
	customers  []customer
	packages   []hostingPackage
	cycles     []billingCycle
	types      []serviceType
	services   []service
	contacts   map[int][]contactPerson
	tlds       map[string]tld
	taken      map[string]bool
}

func seed() *backend {
	price := func(v float64) *float64 { return &v }
	return &backend{
		registrars: []registrar{
			{ID: 5, Code: "openprovider", Name: "OpenProvider", IsActive: true},
			{ID: 9, Code: "internic", Name: "InterNIC Direct", IsActive: true},
		},
		customers: []customer{
			{ID: 42, Name: "Acme Hosting BV", CustomerName: "Acme Hosting BV", Email: "billing@acme.example"},
			{ID: 43, Name: "Acme Labs", CustomerName: "Acme Labs", Email: "it@acmelabs.example"},
			{ID: 77, Name: "Widget Works", CustomerName: "Widget Works Ltd", Email: "admin@widget.example"},
		},
		packages: []hostingPackage{
			{ID: 3, Name: "Pro", MonthlyPrice: 9.5, YearlyPrice: 100, IsActive: true},
			{ID: 4, Name: "Business", MonthlyPrice: 19, YearlyPrice: 200, IsActive: true},
		},
		cycles: []billingCycle{
			{ID: 1, Code: "M", Name: "Monthly", DurationInDays: 30, SortOrder: 1},
			{ID: 2, Code: "Y", Name: "Annual", DurationInDays: 365, SortOrder: 2},
		},
		types: []serviceType{
			{ID: 10, Name: "Email hosting"},
			{ID: 11, Name: "SSL certificates"},
			{ID: 12, Name: "DNS zone packages"},
			{ID: 13, Name: "Consultancy"},
		},
		services: []service{
			{ID: 100, Name: "Mailbox 10GB", ServiceTypeID: 10, Price: price(2.5)},
			{ID: 101, Name: "Wildcard SSL Certificate", ServiceTypeID: 11, Price: price(49)},
			{ID: 102, Name: "Managed DNS zone", ServiceTypeID: 12, Price: price(1)},
			{ID: 103, Name: "Migration assistance", Description: "one-off custom work", ServiceTypeID: 13},
		},
		contacts: map[int][]contactPerson{
			42: {
				{ID: 1, RoleID: 1, Name: "J. Janssen", Email: "j@acme.example", Phone: "+31 20 1234567"},
				{ID: 2, RoleID: 2, Name: "Billing Desk", Email: "billing@acme.example"},
			},
		},
		tlds: map[string]tld{
			"com": {ID: 1, Extension: "com"},
			"nl":  {ID: 2, Extension: "nl"},
			"io":  {ID: 3, Extension: "io"},
		},
		taken: map[string]bool{
			"taken.com":   true,
			"example.net": true,
		},
	}
}

func main() {
	b := seed()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/Registrars/active", b.handleRegistrars)
	mux.HandleFunc("/api/v1/Registrars/", b.handleAvailability)
	mux.HandleFunc("/api/v1/Customers/search", b.handleCustomerSearch)
	mux.HandleFunc("/api/v1/HostingPackages/active", b.handlePackages)
	mux.HandleFunc("/api/v1/BillingCycles", b.handleCycles)
	mux.HandleFunc("/api/v1/ServiceTypes", b.handleServiceTypes)
	mux.HandleFunc("/api/v1/Services", b.handleServices)
	mux.HandleFunc("/api/v1/ContactPersons/customer/", b.handleContacts)
	mux.HandleFunc("/api/v1/Tlds/extension/", b.handleTld)
	mux.HandleFunc("/api/v1/tld-pricing/calculate", b.handleCalculate)
	mux.HandleFunc("/api/v1/Invoices/summary/", b.handleInvoiceSummary)

	addr := defaultListenAddr()
	log.Printf("mock panel listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func defaultListenAddr() string {
	if v := strings.TrimSpace(os.Getenv("MOCK_PANEL_LISTEN")); v != "" {
		return v
	}
	return "127.0.0.1:8790"
}

// handleRegistrars answers with the common camelCase envelope.
func (b *backend) handleRegistrars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": b.registrars})
}

// handleAvailability answers in the PascalCase envelope some of the
// panel's older controllers still emit.
func (b *backend) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/Registrars/")
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "isavailable" {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		return
	}
	domain := strings.ToLower(parts[2])
	if !strings.Contains(domain, ".") {
		writeJSON(w, http.StatusOK, map[string]any{
			"Success": true,
			"Data": map[string]any{
				"IsAvailable":    false,
				"IsTldSupported": false,
				"Message":        "unsupported TLD",
			},
		})
		return
	}
	b.mu.Lock()
	taken := b.taken[domain]
	ext := domain[strings.LastIndex(domain, ".")+1:]
	_, supported := b.tlds[ext]
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"Success": true,
		"Data": map[string]any{
			"IsAvailable":    !taken && supported,
			"IsTldSupported": supported,
		},
	})
}

// handleCustomerSearch wraps the page inside the envelope, with the
// paging counters on the inner object.
func (b *backend) handleCustomerSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if len(query) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "query must be at least 2 characters"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := make([]customer, 0)
	for _, c := range b.customers {
		if strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(strings.ToLower(c.Email), query) {
			matches = append(matches, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"data":        matches,
			"totalCount":  len(matches),
			"currentPage": 1,
			"pageSize":    20,
			"totalPages":  1,
		},
	})
}

// handlePackages answers with a bare array, no envelope.
func (b *backend) handlePackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.packages)
}

func (b *backend) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"Success": true, "Data": b.cycles})
}

func (b *backend) handleServiceTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.types)
}

func (b *backend) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": b.services})
}

func (b *backend) handleContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/ContactPersons/customer/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid customer id"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	contacts := b.contacts[id]
	if contacts == nil {
		contacts = []contactPerson{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (b *backend) handleTld(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	ext := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/api/v1/Tlds/extension/"))
	b.mu.Lock()
	t, ok := b.tlds[ext]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "TLD not supported"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": t})
}

func (b *backend) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	var req struct {
		TldID         int    `json:"tldId"`
		OperationType string `json:"operationType"`
		Years         int    `json:"years"`
	}
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid json"})
		return
	}
	if req.Years <= 0 {
		req.Years = 1
	}
	base := 12.5
	switch req.OperationType {
	case "Transfer":
		base = 9.5
	case "Renewal":
		base = 11
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"finalPrice": base * float64(req.Years),
			"currency":   "EUR",
		},
	})
}

func (b *backend) handleInvoiceSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	status := strings.TrimPrefix(r.URL.Path, "/api/v1/Invoices/summary/")
	var count int
	var total float64
	switch status {
	case "unpaid":
		count, total = 7, 1240.50
	case "overdue":
		count, total = 2, 310
	case "paid-this-month":
		count, total = 14, 2980.75
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "unknown status"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"count": count, "total": total, "currency": "EUR"},
	})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
