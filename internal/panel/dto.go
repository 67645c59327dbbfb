package panel

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The backend serializes the same models in camelCase or PascalCase
// depending on which controller produced them. Each DTO decodes both
// spellings here, once, so the wizard only ever sees canonical Go
// structs.

type fields map[string]json.RawMessage

func (f fields) str(keys ...string) string {
	v, ok := probe(f, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	// Some controllers emit numeric ids where others emit strings.
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func (f fields) num(keys ...string) float64 {
	v, ok := probe(f, keys...)
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}

func (f fields) integer(keys ...string) int {
	return int(f.num(keys...))
}

func (f fields) numPtr(keys ...string) *float64 {
	if _, ok := probe(f, keys...); !ok {
		return nil
	}
	n := f.num(keys...)
	return &n
}

func (f fields) boolean(keys ...string) (bool, bool) {
	v, ok := probe(f, keys...)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return false, false
	}
	return b, true
}

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

type Registrar struct {
	ID       string
	Code     string
	Name     string
	IsActive bool
}

func (r *Registrar) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	r.ID = f.str("id", "Id", "ID")
	r.Code = f.str("code", "Code")
	r.Name = f.str("name", "Name")
	active, ok := f.boolean("isActive", "IsActive")
	r.IsActive = active || !ok
	return nil
}

type Availability struct {
	IsAvailable    bool
	IsTldSupported bool
	Message        string
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	a.IsAvailable, _ = f.boolean("isAvailable", "IsAvailable")
	// Absent means the registrar can serve the TLD.
	supported, ok := f.boolean("isTldSupported", "IsTldSupported")
	a.IsTldSupported = supported || !ok
	a.Message = f.str("message", "Message")
	return nil
}

type Customer struct {
	ID           int
	Name         string
	CustomerName string
	Email        string
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	c.ID = f.integer("id", "Id", "ID")
	c.Name = f.str("name", "Name")
	c.CustomerName = f.str("customerName", "CustomerName")
	c.Email = f.str("email", "Email")
	return nil
}

type HostingPackage struct {
	ID            int
	Name          string
	Description   string
	DiskSpaceMB   int
	BandwidthMB   int
	EmailAccounts int
	Databases     int
	Domains       int
	Subdomains    int
	FTPAccounts   int
	MonthlyPrice  float64
	YearlyPrice   float64
	IsActive      bool
}

func (h *HostingPackage) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	h.ID = f.integer("id", "Id", "ID")
	h.Name = f.str("name", "Name")
	h.Description = f.str("description", "Description")
	h.DiskSpaceMB = f.integer("diskSpaceMB", "DiskSpaceMB", "diskSpaceMb")
	h.BandwidthMB = f.integer("bandwidthMB", "BandwidthMB", "bandwidthMb")
	h.EmailAccounts = f.integer("emailAccounts", "EmailAccounts")
	h.Databases = f.integer("databases", "Databases")
	h.Domains = f.integer("domains", "Domains")
	h.Subdomains = f.integer("subdomains", "Subdomains")
	h.FTPAccounts = f.integer("ftpAccounts", "FtpAccounts", "FTPAccounts")
	h.MonthlyPrice = f.num("monthlyPrice", "MonthlyPrice")
	h.YearlyPrice = f.num("yearlyPrice", "YearlyPrice")
	active, ok := f.boolean("isActive", "IsActive")
	h.IsActive = active || !ok
	return nil
}

type BillingCycle struct {
	ID             int
	Code           string
	Name           string
	DurationInDays int
	SortOrder      int
}

func (b *BillingCycle) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	b.ID = f.integer("id", "Id", "ID")
	b.Code = f.str("code", "Code")
	b.Name = f.str("name", "Name")
	b.DurationInDays = f.integer("durationInDays", "DurationInDays")
	b.SortOrder = f.integer("sortOrder", "SortOrder")
	return nil
}

type ServiceType struct {
	ID   int
	Name string
}

func (s *ServiceType) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	s.ID = f.integer("id", "Id", "ID")
	s.Name = f.str("name", "Name")
	return nil
}

type Service struct {
	ID            int
	Name          string
	Description   string
	ServiceTypeID int
	Price         *float64
}

func (s *Service) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	s.ID = f.integer("id", "Id", "ID")
	s.Name = f.str("name", "Name")
	s.Description = f.str("description", "Description")
	s.ServiceTypeID = f.integer("serviceTypeId", "ServiceTypeId", "ServiceTypeID")
	s.Price = f.numPtr("price", "Price")
	return nil
}

type ContactPerson struct {
	ID     int
	RoleID int
	Name   string
	Email  string
	Phone  string
}

func (c *ContactPerson) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	c.ID = f.integer("id", "Id", "ID")
	c.RoleID = f.integer("roleId", "RoleId", "contactRoleId", "ContactRoleId")
	c.Name = f.str("name", "Name")
	c.Email = f.str("email", "Email")
	c.Phone = f.str("phone", "Phone")
	return nil
}

type Tld struct {
	ID        int
	Extension string
}

func (t *Tld) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	t.ID = f.integer("id", "Id", "ID")
	t.Extension = f.str("extension", "Extension")
	return nil
}

// Domain operation names the pricing endpoint understands.
const (
	OperationRegistration = "Registration"
	OperationTransfer     = "Transfer"
	OperationRenewal      = "Renewal"
)

type PriceRequest struct {
	TldID         int    `json:"tldId"`
	OperationType string `json:"operationType"`
	Years         int    `json:"years"`
	IsFirstYear   bool   `json:"isFirstYear"`
}

type PriceQuote struct {
	FinalPrice float64
	Currency   string
}

func (p *PriceQuote) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	p.FinalPrice = f.num("finalPrice", "FinalPrice", "price", "Price")
	p.Currency = f.str("currency", "Currency")
	return nil
}

type InvoiceTotals struct {
	Count    int
	Total    float64
	Currency string
}

func (i *InvoiceTotals) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	i.Count = f.integer("count", "Count", "totalCount", "TotalCount")
	i.Total = f.num("total", "Total", "totalAmount", "TotalAmount")
	i.Currency = f.str("currency", "Currency")
	return nil
}
