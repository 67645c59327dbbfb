package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func sampleState() *SaleState {
	price := 12.5
	return &SaleState{
		DomainName:             "example.com",
		FlowType:               FlowRegister,
		SelectedRegistrarID:    "5",
		SelectedRegistrarCode:  "ENOM",
		SelectedRegistrarLabel: "eNom",
		SelectedCustomer:       &CustomerSummary{ID: 12, Name: "Acme", CustomerName: "Acme Oy"},
		HostingPackageID:       intPtr(3),
		BillingCycleID:         intPtr(1),
		OtherServices: &OtherServices{
			SelectedServiceIDs:      []int{4, 9},
			RegistrationPeriodYears: 2,
			AutoRenew:               true,
			DomainOperationPrice:    &price,
			Currency:                "EUR",
		},
		Offer: &Offer{QuoteID: "Q-77", Status: "Draft", LoadedLineItems: []string{"Pro (Annual)"}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	saved := sampleState()
	require.NoError(t, fs.Save(saved))

	loaded := fs.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, saved, loaded)
}

func TestLoadAbsentReturnsNil(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	assert.Nil(t, fs.Load())
}

func TestLoadCorruptReturnsNil(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateKey+".json"), []byte("{broken"), 0o600))
	assert.Nil(t, fs.Load())
}

func TestClampedYears(t *testing.T) {
	var missing *OtherServices
	assert.Equal(t, MinRegistrationYears, missing.ClampedYears())
	for _, years := range []int{0, -3, 11, 99} {
		os := &OtherServices{RegistrationPeriodYears: years}
		assert.Equal(t, MinRegistrationYears, os.ClampedYears(), "years=%d", years)
	}
	for _, years := range []int{1, 2, 10} {
		os := &OtherServices{RegistrationPeriodYears: years}
		assert.Equal(t, years, os.ClampedYears(), "years=%d", years)
	}
}

func TestLoadPreservesRawYears(t *testing.T) {
	// The persisted value is what the operator typed; clamping happens
	// when the form restores it, not in the store.
	fs := NewFileStore(t.TempDir())
	s := sampleState()
	s.OtherServices.RegistrationPeriodYears = 11
	require.NoError(t, fs.Save(s))
	loaded := fs.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, 11, loaded.OtherServices.RegistrationPeriodYears)
	assert.Equal(t, MinRegistrationYears, loaded.OtherServices.ClampedYears())
}

func TestClearEndsSession(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	require.NoError(t, fs.Save(sampleState()))
	require.NoError(t, fs.Clear())
	assert.Nil(t, fs.Load())
	require.NoError(t, fs.Clear(), "clearing an already-empty store is fine")
}

func TestMemStoreMatchesFileStoreSemantics(t *testing.T) {
	ms := &MemStore{}
	assert.Nil(t, ms.Load())
	require.NoError(t, ms.Save(sampleState()))
	assert.Equal(t, sampleState(), ms.Load())
	ms.Corrupt()
	assert.Nil(t, ms.Load())
}

func TestReadyForLaterSteps(t *testing.T) {
	var nilState *SaleState
	assert.False(t, nilState.ReadyForLaterSteps())
	assert.False(t, (&SaleState{DomainName: "a.com", FlowType: FlowRegister}).ReadyForLaterSteps())
	assert.False(t, (&SaleState{DomainName: "a.com", SelectedCustomer: &CustomerSummary{ID: 1}}).ReadyForLaterSteps())
	assert.True(t, sampleState().ReadyForLaterSteps())
}
