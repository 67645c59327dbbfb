package wizard

import (
	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
)

// Page routes the wizard advances through. Guard failures carry the
// step-1 path so the caller knows where to send the operator.
const (
	PathStep1 = "/dashboard/new-sale"
	PathStep2 = "/dashboard/new-sale/hosting"
	PathStep3 = "/dashboard/new-sale/services"
	PathOffer = "/dashboard/new-sale/offer"
)

// Flow is the wizard context: the persisted sale state plus the panel
// API. Steps hold no state of their own; everything lives in the
// store so the operator can leave and resume mid-edit.
type Flow struct {
	Store state.Store
	Panel panel.API
}

func New(store state.Store, api panel.API) *Flow {
	return &Flow{Store: store, Panel: api}
}

// current returns the persisted state, or a fresh one; the state blob
// is created implicitly by the first write in step 1.
func (f *Flow) current() *state.SaleState {
	if s := f.Store.Load(); s != nil {
		return s
	}
	return &state.SaleState{}
}

// mutate applies one change and persists the whole aggregate, the
// write-back contract every field edit follows.
func (f *Flow) mutate(fn func(*state.SaleState)) error {
	s := f.current()
	fn(s)
	if err := f.Store.Save(s); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed persisting sale state", err)
	}
	return nil
}

// guard is applied at the top of steps 2 and 3: without a domain, a
// flow type, and a selected customer the step must not render or fetch
// anything, and the operator is redirected to step 1.
func (f *Flow) guard() (*state.SaleState, error) {
	s := f.Store.Load()
	if !s.ReadyForLaterSteps() {
		return nil, apperr.WithDetails(
			apperr.New(apperr.CodeGuard, "sale state is incomplete"),
			map[string]any{"redirect": PathStep1},
		)
	}
	return s, nil
}

// State exposes the persisted aggregate for status rendering.
func (f *Flow) State() *state.SaleState {
	return f.Store.Load()
}
