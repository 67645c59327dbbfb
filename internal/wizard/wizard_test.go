package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
)

// fakeAPI scripts panel responses and records which endpoints were hit.
type fakeAPI struct {
	registrars    []panel.Registrar
	availability  panel.Availability
	availErr      error
	customers     []panel.Customer
	customersMeta *panel.PageMeta
	searchErr     error
	packages      []panel.HostingPackage
	packagesErr   error
	cycles        []panel.BillingCycle
	cyclesErr     error
	serviceTypes  []panel.ServiceType
	typesErr      error
	services      []panel.Service
	servicesErr   error
	contacts      []panel.ContactPerson
	contactsErr   error
	tld           panel.Tld
	tldErr        error
	quote         panel.PriceQuote
	quoteErr      error
	invoices      map[string]panel.InvoiceTotals

	calls []string
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) ActiveRegistrars(ctx context.Context) ([]panel.Registrar, error) {
	f.record("registrars")
	return f.registrars, nil
}

func (f *fakeAPI) CheckAvailability(ctx context.Context, registrarID, domain string) (panel.Availability, error) {
	f.record("availability")
	return f.availability, f.availErr
}

func (f *fakeAPI) SearchCustomers(ctx context.Context, query string) ([]panel.Customer, *panel.PageMeta, error) {
	f.record("customers")
	return f.customers, f.customersMeta, f.searchErr
}

func (f *fakeAPI) ActiveHostingPackages(ctx context.Context) ([]panel.HostingPackage, error) {
	f.record("packages")
	return f.packages, f.packagesErr
}

func (f *fakeAPI) BillingCycles(ctx context.Context) ([]panel.BillingCycle, error) {
	f.record("cycles")
	return f.cycles, f.cyclesErr
}

func (f *fakeAPI) ServiceTypes(ctx context.Context) ([]panel.ServiceType, error) {
	f.record("serviceTypes")
	return f.serviceTypes, f.typesErr
}

func (f *fakeAPI) Services(ctx context.Context) ([]panel.Service, error) {
	f.record("services")
	return f.services, f.servicesErr
}

func (f *fakeAPI) CustomerContacts(ctx context.Context, customerID int) ([]panel.ContactPerson, error) {
	f.record("contacts")
	return f.contacts, f.contactsErr
}

func (f *fakeAPI) TldByExtension(ctx context.Context, extension string) (panel.Tld, error) {
	f.record("tld:" + extension)
	return f.tld, f.tldErr
}

func (f *fakeAPI) CalculatePrice(ctx context.Context, req panel.PriceRequest) (panel.PriceQuote, error) {
	f.record("price:" + req.OperationType)
	return f.quote, f.quoteErr
}

func (f *fakeAPI) InvoiceSummary(ctx context.Context, status string) (panel.InvoiceTotals, error) {
	f.record("invoices:" + status)
	if t, ok := f.invoices[status]; ok {
		return t, nil
	}
	return panel.InvoiceTotals{}, apperr.New(apperr.CodeAPI, "no summary for "+status)
}

func newFlow(api *fakeAPI) (*Flow, *state.MemStore) {
	store := &state.MemStore{}
	return New(store, api), store
}

func readyState() *state.SaleState {
	return &state.SaleState{
		DomainName:          "example.com",
		FlowType:            state.FlowRegister,
		SelectedRegistrarID: "5",
		SelectedCustomer:    &state.CustomerSummary{ID: 12, Name: "Acme"},
	}
}

func TestGuardRedirectsWithoutFetching(t *testing.T) {
	incomplete := []*state.SaleState{
		nil,
		{DomainName: "example.com", FlowType: state.FlowRegister},
		{DomainName: "example.com", SelectedCustomer: &state.CustomerSummary{ID: 1}},
		{FlowType: state.FlowRegister, SelectedCustomer: &state.CustomerSummary{ID: 1}},
	}
	for _, st := range incomplete {
		api := &fakeAPI{}
		flow, store := newFlow(api)
		if st != nil {
			require.NoError(t, store.Save(st))
		}

		_, err := flow.LoadHosting(context.Background())
		var ae *apperr.AppError
		require.True(t, apperr.As(err, &ae))
		assert.Equal(t, apperr.CodeGuard, ae.Code)
		assert.Equal(t, PathStep1, ae.Details["redirect"])

		_, err = flow.LoadServices(context.Background())
		require.True(t, apperr.As(err, &ae))
		assert.Equal(t, apperr.CodeGuard, ae.Code)

		assert.Empty(t, api.calls, "guard must block all catalog fetches")
	}
}

func TestEndToEndRegisterFlow(t *testing.T) {
	api := &fakeAPI{
		availability: panel.Availability{IsAvailable: true, IsTldSupported: true},
		customers:    []panel.Customer{{ID: 12, Name: "Acme", CustomerName: "Acme Oy"}},
		packages: []panel.HostingPackage{
			{ID: 3, Name: "Pro", MonthlyPrice: 10, YearlyPrice: 100, IsActive: true},
		},
		cycles: []panel.BillingCycle{
			{ID: 1, Name: "Monthly", DurationInDays: 30, SortOrder: 1},
			{ID: 2, Name: "Annual", DurationInDays: 365, SortOrder: 2},
		},
		tld:   panel.Tld{ID: 7, Extension: "com"},
		quote: panel.PriceQuote{FinalPrice: 24, Currency: "EUR"},
	}
	flow, store := newFlow(api)
	ctx := context.Background()

	// Step 1: registrar, domain, availability, customer.
	require.NoError(t, flow.SelectRegistrar(panel.Registrar{ID: "5", Code: "ENOM", Name: "eNom"}))
	require.NoError(t, flow.SetDomain("Example.COM"))
	check, err := flow.CheckDomain(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, check.Status)
	require.NoError(t, flow.BeginFlow(state.FlowRegister))

	res, err := flow.ResolveCustomer(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, ResolutionAutoSelected, res.Outcome)

	// Step 2: choose package 3 on the monthly cycle.
	cat, err := flow.LoadHosting(ctx)
	require.NoError(t, err)
	require.NoError(t, flow.ChooseHosting(3, 1, cat))

	// Step 3: no add-ons, two-year registration.
	require.NoError(t, flow.SetRegistrationYears(2))
	_, err = flow.DomainOperationPrice(ctx)
	require.NoError(t, err)
	require.NoError(t, flow.CompleteServices())

	final := store.Load()
	require.NotNil(t, final)
	assert.Equal(t, "example.com", final.DomainName)
	assert.Equal(t, state.FlowRegister, final.FlowType)
	require.NotNil(t, final.SelectedCustomer)
	assert.Equal(t, 12, final.SelectedCustomer.ID)
	require.NotNil(t, final.HostingPackageID)
	assert.Equal(t, 3, *final.HostingPackageID)
	require.NotNil(t, final.BillingCycleID)
	assert.Equal(t, 1, *final.BillingCycleID)
	require.NotNil(t, final.OtherServices)
	assert.Equal(t, 2, final.OtherServices.RegistrationPeriodYears)
}
