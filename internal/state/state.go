package state

// SaleState is the single persisted aggregate for an in-progress sale.
// Every wizard step reads the accumulated state, mutates its own
// fields, and writes the whole object back.

type FlowType string

const (
	FlowRegister FlowType = "register"
	FlowTransfer FlowType = "transfer"
	FlowRenew    FlowType = "renew"
)

const (
	MinRegistrationYears = 1
	MaxRegistrationYears = 10
	MinAuthCodeLength    = 6
)

type CustomerSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CustomerName string `json:"customerName,omitempty"`
}

type OtherServices struct {
	SelectedServiceIDs      []int    `json:"selectedServiceIds,omitempty"`
	CustomServiceNotes      string   `json:"customServiceNotes,omitempty"`
	TransferAuthCode        string   `json:"transferAuthCode,omitempty"`
	RegistrationPeriodYears int      `json:"registrationPeriodYears"`
	AutoRenew               bool     `json:"autoRenew"`
	PrivacyProtection       bool     `json:"privacyProtection"`
	DomainOperationPrice    *float64 `json:"domainOperationPrice,omitempty"`
	Currency                string   `json:"currency,omitempty"`
}

// Offer carries read-only display fields from the quoting collaborator.
// LoadedLineItems feeds the best-effort hosting re-selection heuristic.
type Offer struct {
	QuoteID            string   `json:"quoteId,omitempty"`
	Status             string   `json:"status,omitempty"`
	LastAction         string   `json:"lastAction,omitempty"`
	LastRevisionNumber int      `json:"lastRevisionNumber,omitempty"`
	LoadedLineItems    []string `json:"loadedLineItems,omitempty"`
}

type SaleState struct {
	DomainName             string           `json:"domainName,omitempty"`
	FlowType               FlowType         `json:"flowType,omitempty"`
	SelectedRegistrarID    string           `json:"selectedRegistrarId,omitempty"`
	SelectedRegistrarCode  string           `json:"selectedRegistrarCode,omitempty"`
	SelectedRegistrarLabel string           `json:"selectedRegistrarLabel,omitempty"`
	SelectedCustomer       *CustomerSummary `json:"selectedCustomer,omitempty"`
	HostingPackageID       *int             `json:"hostingPackageId,omitempty"`
	BillingCycleID         *int             `json:"billingCycleId,omitempty"`
	HostingSkipped         bool             `json:"hostingSkipped,omitempty"`
	OtherServices          *OtherServices   `json:"otherServices,omitempty"`
	Offer                  *Offer           `json:"offer,omitempty"`
}

// EnsureOtherServices lazily initializes the step-3 sub-state with the
// minimum registration period.
func (s *SaleState) EnsureOtherServices() *OtherServices {
	if s.OtherServices == nil {
		s.OtherServices = &OtherServices{RegistrationPeriodYears: MinRegistrationYears}
	}
	return s.OtherServices
}

// ReadyForLaterSteps reports whether steps 2 and 3 may render. The
// step guard redirects to step 1 when this is false.
func (s *SaleState) ReadyForLaterSteps() bool {
	if s == nil {
		return false
	}
	return s.DomainName != "" && s.FlowType != "" && s.SelectedCustomer != nil
}

// ClampedYears is the registration period as restored into the step-3
// form: anything outside the allowed range comes back as the minimum.
// The raw persisted value is kept so submit-time validation still sees
// what the operator typed.
func (o *OtherServices) ClampedYears() int {
	if o == nil {
		return MinRegistrationYears
	}
	if o.RegistrationPeriodYears < MinRegistrationYears || o.RegistrationPeriodYears > MaxRegistrationYears {
		return MinRegistrationYears
	}
	return o.RegistrationPeriodYears
}
