package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
)

// Step 3: additional services and domain operation pricing.

// The four fixed service buckets.
const (
	CategoryEmail  = "Email hosting"
	CategorySSL    = "SSL certificates"
	CategoryDNS    = "DNS zone packages"
	CategoryCustom = "Custom services"
)

// categoryKeywords is checked in priority order; the first matching
// bucket wins, anything else lands in Custom.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{CategorySSL, []string{"ssl", "certificate", "tls"}},
	{CategoryDNS, []string{"dns", "zone"}},
	{CategoryEmail, []string{"email", "mailbox", "webmail"}},
}

// Categorize buckets a service by case-insensitive substring matching
// over its name, description and service-type name.
func Categorize(svc panel.Service, typeName string) string {
	hay := strings.ToLower(svc.Name + " " + svc.Description + " " + typeName)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(hay, w) {
				return ck.category
			}
		}
	}
	return CategoryCustom
}

type ContactRow struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ServicesView struct {
	Email  []panel.Service `json:"emailHosting"`
	SSL    []panel.Service `json:"sslCertificates"`
	DNS    []panel.Service `json:"dnsZonePackages"`
	Custom []panel.Service `json:"customServices"`

	Contacts []ContactRow `json:"contacts,omitempty"`

	// Form values restored from state; the registration period is
	// clamped back into range here.
	SelectedServiceIDs []int  `json:"selectedServiceIds,omitempty"`
	TransferAuthCode   string `json:"transferAuthCode,omitempty"`
	Years              int    `json:"registrationPeriodYears"`
	AutoRenew          bool   `json:"autoRenew"`
	PrivacyProtection  bool   `json:"privacyProtection"`

	ServicesErr string `json:"servicesError,omitempty"`
	TypesErr    string `json:"typesError,omitempty"`
	ContactsErr string `json:"contactsError,omitempty"`
}

// LoadServices fetches the two catalogs and the customer's contact
// summary concurrently; a failed fetch only blanks its own section.
func (f *Flow) LoadServices(ctx context.Context) (ServicesView, error) {
	st, err := f.guard()
	if err != nil {
		return ServicesView{}, err
	}

	var (
		types    []panel.ServiceType
		services []panel.Service
		contacts []panel.ContactPerson
		view     ServicesView
		wg       sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		items, err := f.Panel.ServiceTypes(ctx)
		if err != nil {
			view.TypesErr = err.Error()
			return
		}
		types = items
	}()
	go func() {
		defer wg.Done()
		items, err := f.Panel.Services(ctx)
		if err != nil {
			view.ServicesErr = err.Error()
			return
		}
		services = items
	}()
	go func() {
		defer wg.Done()
		items, err := f.Panel.CustomerContacts(ctx, st.SelectedCustomer.ID)
		if err != nil {
			view.ContactsErr = err.Error()
			return
		}
		contacts = items
	}()
	wg.Wait()

	typeNames := make(map[int]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}
	for _, svc := range services {
		switch Categorize(svc, typeNames[svc.ServiceTypeID]) {
		case CategorySSL:
			view.SSL = append(view.SSL, svc)
		case CategoryDNS:
			view.DNS = append(view.DNS, svc)
		case CategoryEmail:
			view.Email = append(view.Email, svc)
		default:
			view.Custom = append(view.Custom, svc)
		}
	}
	view.Contacts = contactRows(contacts)

	os := st.OtherServices
	view.Years = os.ClampedYears()
	if os != nil {
		view.SelectedServiceIDs = os.SelectedServiceIDs
		view.TransferAuthCode = os.TransferAuthCode
		view.AutoRenew = os.AutoRenew
		view.PrivacyProtection = os.PrivacyProtection
	}
	return view, nil
}

func contactRows(contacts []panel.ContactPerson) []ContactRow {
	rows := make([]ContactRow, 0, len(contacts))
	for _, c := range contacts {
		role := "-"
		if c.RoleID != 0 {
			role = "Role " + strconv.Itoa(c.RoleID)
		}
		rows = append(rows, ContactRow{
			Role:  role,
			Name:  dash(c.Name),
			Email: dash(c.Email),
			Phone: dash(c.Phone),
		})
	}
	return rows
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type DomainPrice struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Years    int     `json:"years"`
	Text     string  `json:"text"`
}

func operationType(ft state.FlowType) string {
	switch ft {
	case state.FlowTransfer:
		return panel.OperationTransfer
	case state.FlowRenew:
		return panel.OperationRenewal
	default:
		return panel.OperationRegistration
	}
}

// tldOf takes the last dot-separated label of the domain name.
func tldOf(domain string) string {
	parts := strings.Split(domain, ".")
	return parts[len(parts)-1]
}

// DomainOperationPrice resolves the TLD and asks the pricing endpoint
// for the operation's cost. The result is persisted so navigating back
// does not recompute it; any failure clears the stored price rather
// than keeping a stale one.
func (f *Flow) DomainOperationPrice(ctx context.Context) (DomainPrice, error) {
	st, err := f.guard()
	if err != nil {
		return DomainPrice{}, err
	}
	years := st.OtherServices.ClampedYears()

	tld, err := f.Panel.TldByExtension(ctx, tldOf(st.DomainName))
	if err != nil {
		if clearErr := f.clearStoredPrice(); clearErr != nil {
			return DomainPrice{}, clearErr
		}
		return DomainPrice{}, err
	}
	quote, err := f.Panel.CalculatePrice(ctx, panel.PriceRequest{
		TldID:         tld.ID,
		OperationType: operationType(st.FlowType),
		Years:         years,
		IsFirstYear:   true,
	})
	if err != nil {
		if clearErr := f.clearStoredPrice(); clearErr != nil {
			return DomainPrice{}, clearErr
		}
		return DomainPrice{}, err
	}

	if err := f.mutate(func(s *state.SaleState) {
		os := s.EnsureOtherServices()
		price := quote.FinalPrice
		os.DomainOperationPrice = &price
		os.Currency = quote.Currency
	}); err != nil {
		return DomainPrice{}, err
	}
	return DomainPrice{
		Price:    quote.FinalPrice,
		Currency: quote.Currency,
		Years:    years,
		Text:     fmt.Sprintf("%.2f %s / %d year(s)", quote.FinalPrice, quote.Currency, years),
	}, nil
}

func (f *Flow) clearStoredPrice() error {
	return f.mutate(func(s *state.SaleState) {
		if s.OtherServices == nil {
			return
		}
		s.OtherServices.DomainOperationPrice = nil
		s.OtherServices.Currency = ""
	})
}

// SetServices persists the add-on selection and notes.
func (f *Flow) SetServices(ids []int, notes string) error {
	return f.mutate(func(s *state.SaleState) {
		os := s.EnsureOtherServices()
		os.SelectedServiceIDs = ids
		os.CustomServiceNotes = notes
	})
}

// SetDomainOptions persists auto-renew and privacy toggles.
func (f *Flow) SetDomainOptions(autoRenew, privacy bool) error {
	return f.mutate(func(s *state.SaleState) {
		os := s.EnsureOtherServices()
		os.AutoRenew = autoRenew
		os.PrivacyProtection = privacy
	})
}

// SetTransferAuthCode persists the EPP code as typed; validation
// happens on submit so a short code is never wiped out from under the
// operator.
func (f *Flow) SetTransferAuthCode(code string) error {
	return f.mutate(func(s *state.SaleState) {
		s.EnsureOtherServices().TransferAuthCode = code
	})
}

// SetRegistrationYears persists the period as typed; range checking
// happens on submit, clamping on restore.
func (f *Flow) SetRegistrationYears(years int) error {
	return f.mutate(func(s *state.SaleState) {
		s.EnsureOtherServices().RegistrationPeriodYears = years
	})
}

// CompleteServices is the step's Next/Skip action: flow-specific
// validation blocks navigation without clearing anything the operator
// already entered.
func (f *Flow) CompleteServices() error {
	st, err := f.guard()
	if err != nil {
		return err
	}
	os := st.EnsureOtherServices()
	switch st.FlowType {
	case state.FlowTransfer:
		if len(strings.TrimSpace(os.TransferAuthCode)) < state.MinAuthCodeLength {
			return apperr.New(apperr.CodeValidation, "transfer auth code must be at least 6 characters")
		}
	case state.FlowRegister:
		if os.RegistrationPeriodYears < state.MinRegistrationYears || os.RegistrationPeriodYears > state.MaxRegistrationYears {
			return apperr.New(apperr.CodeValidation, "registration period must be between 1 and 10 years")
		}
	}
	return nil
}
