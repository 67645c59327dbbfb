package wizard

import (
	"context"
	"strings"
	"time"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
)

// Step 1: domain search and customer resolution.

type AvailabilityStatus string

const (
	StatusIdle           AvailabilityStatus = "idle"
	StatusChecking       AvailabilityStatus = "checking"
	StatusAvailable      AvailabilityStatus = "available"
	StatusUnavailable    AvailabilityStatus = "unavailable"
	StatusTldUnsupported AvailabilityStatus = "tld_unsupported"
)

// MinCustomerQueryLen mirrors the search box: shorter input never
// reaches the network. SearchDebounce is the pause the hosted page
// waits after the last keystroke.
const (
	MinCustomerQueryLen = 2
	SearchDebounce      = 400 * time.Millisecond
)

type DomainCheck struct {
	Domain        string             `json:"domain"`
	Status        AvailabilityStatus `json:"status"`
	SuggestedFlow state.FlowType     `json:"suggestedFlow,omitempty"`
	Message       string             `json:"message,omitempty"`
}

func (f *Flow) Registrars(ctx context.Context) ([]panel.Registrar, error) {
	return f.Panel.ActiveRegistrars(ctx)
}

// SelectRegistrar persists the registrar context immediately so a
// reload restores the in-progress search.
func (f *Flow) SelectRegistrar(reg panel.Registrar) error {
	return f.mutate(func(s *state.SaleState) {
		s.SelectedRegistrarID = reg.ID
		s.SelectedRegistrarCode = reg.Code
		s.SelectedRegistrarLabel = reg.Name
	})
}

// SetDomain persists the domain input on every change.
func (f *Flow) SetDomain(domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return f.mutate(func(s *state.SaleState) {
		s.DomainName = domain
	})
}

// CheckDomain runs the availability check against the selected
// registrar. An unsupported TLD is terminal for this attempt; the
// operator has to change registrar or TLD.
func (f *Flow) CheckDomain(ctx context.Context) (DomainCheck, error) {
	s := f.current()
	if s.DomainName == "" {
		return DomainCheck{Status: StatusIdle}, apperr.New(apperr.CodeValidation, "enter a domain name first")
	}
	if s.SelectedRegistrarID == "" {
		return DomainCheck{Domain: s.DomainName, Status: StatusIdle}, apperr.New(apperr.CodeValidation, "select a registrar first")
	}

	avail, err := f.Panel.CheckAvailability(ctx, s.SelectedRegistrarID, s.DomainName)
	if err != nil {
		return DomainCheck{Domain: s.DomainName, Status: StatusIdle}, err
	}

	check := DomainCheck{Domain: s.DomainName, Message: avail.Message}
	switch {
	case !avail.IsTldSupported:
		check.Status = StatusTldUnsupported
	case avail.IsAvailable:
		check.Status = StatusAvailable
		check.SuggestedFlow = state.FlowRegister
	default:
		check.Status = StatusUnavailable
		check.SuggestedFlow = state.FlowTransfer
	}
	return check, nil
}

// BeginFlow records which domain operation the operator committed to.
func (f *Flow) BeginFlow(ft state.FlowType) error {
	switch ft {
	case state.FlowRegister, state.FlowTransfer, state.FlowRenew:
	default:
		return apperr.New(apperr.CodeValidation, "flow must be register, transfer or renew")
	}
	return f.mutate(func(s *state.SaleState) {
		s.FlowType = ft
	})
}

type ResolutionOutcome string

const (
	// ResolutionCreatePrompt: no matches, offer to create a customer.
	ResolutionCreatePrompt ResolutionOutcome = "create_prompt"
	// ResolutionAutoSelected: exactly one match was committed to state.
	ResolutionAutoSelected ResolutionOutcome = "auto_selected"
	// ResolutionMultiple: the operator must pick from the match list.
	ResolutionMultiple ResolutionOutcome = "multiple"
)

type CustomerResolution struct {
	Outcome  ResolutionOutcome      `json:"outcome"`
	Matches  []panel.Customer       `json:"matches,omitempty"`
	Selected *state.CustomerSummary `json:"selected,omitempty"`
	Paging   *panel.PageMeta        `json:"paging,omitempty"`
}

// ResolveCustomer runs the customer search. Exactly one match
// auto-selects and persists; several matches are returned for a
// first-click commit through SelectCustomer.
func (f *Flow) ResolveCustomer(ctx context.Context, query string) (CustomerResolution, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinCustomerQueryLen {
		return CustomerResolution{}, apperr.New(apperr.CodeValidation, "enter at least 2 characters to search")
	}
	matches, paging, err := f.Panel.SearchCustomers(ctx, query)
	if err != nil {
		return CustomerResolution{}, err
	}
	switch len(matches) {
	case 0:
		return CustomerResolution{Outcome: ResolutionCreatePrompt, Paging: paging}, nil
	case 1:
		if err := f.SelectCustomer(matches[0]); err != nil {
			return CustomerResolution{}, err
		}
		return CustomerResolution{
			Outcome:  ResolutionAutoSelected,
			Selected: customerSummary(matches[0]),
			Paging:   paging,
		}, nil
	default:
		return CustomerResolution{Outcome: ResolutionMultiple, Matches: matches, Paging: paging}, nil
	}
}

// SelectCustomer commits a customer choice and persists it.
func (f *Flow) SelectCustomer(c panel.Customer) error {
	return f.mutate(func(s *state.SaleState) {
		s.SelectedCustomer = customerSummary(c)
	})
}

// ClearCustomer drops the selection; steps 2 and 3 lock again.
func (f *Flow) ClearCustomer() error {
	return f.mutate(func(s *state.SaleState) {
		s.SelectedCustomer = nil
	})
}

func customerSummary(c panel.Customer) *state.CustomerSummary {
	return &state.CustomerSummary{ID: c.ID, Name: c.Name, CustomerName: c.CustomerName}
}
