package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
)

// Step 2: hosting package and billing cycle selection.

// PricePlaceholder is shown while either selection is missing.
const PricePlaceholder = "-"

type SelectionSource string

const (
	SourceState SelectionSource = "state"
	SourceOffer SelectionSource = "offer"
)

// RestoredSelection is a previously chosen package/cycle carried back
// into the rendered catalog.
type RestoredSelection struct {
	PackageID *int            `json:"packageId,omitempty"`
	CycleID   *int            `json:"cycleId,omitempty"`
	Source    SelectionSource `json:"source"`
}

// HostingCatalog is everything step 2 renders. A failed section keeps
// its error message; the sibling section still renders.
type HostingCatalog struct {
	Packages    []panel.HostingPackage `json:"packages"`
	Cycles      []panel.BillingCycle   `json:"cycles"`
	PackagesErr string                 `json:"packagesError,omitempty"`
	CyclesErr   string                 `json:"cyclesError,omitempty"`
	Restored    *RestoredSelection     `json:"restored,omitempty"`
}

// LoadHosting fetches both catalogs concurrently. The guard runs
// first: with incomplete state no catalog request is issued.
func (f *Flow) LoadHosting(ctx context.Context) (HostingCatalog, error) {
	st, err := f.guard()
	if err != nil {
		return HostingCatalog{}, err
	}

	var cat HostingCatalog
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pkgs, err := f.Panel.ActiveHostingPackages(ctx)
		if err != nil {
			cat.PackagesErr = err.Error()
			return
		}
		cat.Packages = pkgs
	}()
	go func() {
		defer wg.Done()
		cycles, err := f.Panel.BillingCycles(ctx)
		if err != nil {
			cat.CyclesErr = err.Error()
			return
		}
		cat.Cycles = cycles
	}()
	wg.Wait()

	cat.Restored = restoreSelection(st, cat.Packages, cat.Cycles)
	return cat, nil
}

// restoreSelection re-applies an earlier choice. A stored package id
// must still exist in the active list; stale ids are silently ignored.
// Failing that, a prior offer's line items are parsed best-effort.
func restoreSelection(st *state.SaleState, pkgs []panel.HostingPackage, cycles []panel.BillingCycle) *RestoredSelection {
	if st.HostingPackageID != nil {
		if findPackage(pkgs, *st.HostingPackageID) != nil {
			sel := &RestoredSelection{PackageID: st.HostingPackageID, Source: SourceState}
			if st.BillingCycleID != nil && findCycle(cycles, *st.BillingCycleID) != nil {
				sel.CycleID = st.BillingCycleID
			}
			return sel
		}
	}
	if st.Offer != nil {
		return matchOfferSelection(st.Offer.LoadedLineItems, pkgs, cycles)
	}
	return nil
}

// lineItemPattern expects the quoting collaborator's
// "<package name> (<cycle name>)" description format.
var lineItemPattern = regexp.MustCompile(`^\s*(.*?)\s*\((.+)\)\s*$`)

// matchOfferSelection parses offer line items for a hosting hint. This
// is string-matching against display text: a miss is not an error, and
// an unparseable item falls back to matching the whole string as a
// package name.
func matchOfferSelection(items []string, pkgs []panel.HostingPackage, cycles []panel.BillingCycle) *RestoredSelection {
	for _, item := range items {
		pkgName := strings.TrimSpace(item)
		cycleName := ""
		if m := lineItemPattern.FindStringSubmatch(item); m != nil {
			pkgName = m[1]
			cycleName = m[2]
		}
		pkg := findPackageByName(pkgs, pkgName)
		if pkg == nil {
			continue
		}
		sel := &RestoredSelection{PackageID: &pkg.ID, Source: SourceOffer}
		if cycleName != "" {
			if cycle := findCycleByName(cycles, cycleName); cycle != nil {
				sel.CycleID = &cycle.ID
			}
		}
		return sel
	}
	return nil
}

// PricePreview derives the displayed price for a package/cycle pair:
// yearly price for year-length cycles, monthly otherwise.
func PricePreview(pkg *panel.HostingPackage, cycle *panel.BillingCycle) string {
	if pkg == nil || cycle == nil {
		return PricePlaceholder
	}
	price := pkg.MonthlyPrice
	if isYearlyCycle(cycle) {
		price = pkg.YearlyPrice
	}
	return fmt.Sprintf("%.2f / %s", price, cycle.Name)
}

func isYearlyCycle(c *panel.BillingCycle) bool {
	name := strings.ToLower(c.Name + " " + c.Code)
	return strings.Contains(name, "year") || c.DurationInDays >= 360
}

// ChooseHosting persists the selection. Both a package and a cycle
// must be picked, and both must exist in the loaded catalogs.
func (f *Flow) ChooseHosting(packageID, cycleID int, cat HostingCatalog) error {
	if _, err := f.guard(); err != nil {
		return err
	}
	if findPackage(cat.Packages, packageID) == nil {
		return apperr.New(apperr.CodeValidation, "select a hosting package from the list")
	}
	if findCycle(cat.Cycles, cycleID) == nil {
		return apperr.New(apperr.CodeValidation, "select a billing cycle from the list")
	}
	return f.mutate(func(s *state.SaleState) {
		s.HostingPackageID = &packageID
		s.BillingCycleID = &cycleID
		s.HostingSkipped = false
	})
}

// SkipHosting clears both selections and records the skip. Skipping is
// a valid terminal outcome for this step, not an error.
func (f *Flow) SkipHosting() error {
	if _, err := f.guard(); err != nil {
		return err
	}
	return f.mutate(func(s *state.SaleState) {
		s.HostingPackageID = nil
		s.BillingCycleID = nil
		s.HostingSkipped = true
	})
}

func findPackage(pkgs []panel.HostingPackage, id int) *panel.HostingPackage {
	for i := range pkgs {
		if pkgs[i].ID == id {
			return &pkgs[i]
		}
	}
	return nil
}

func findPackageByName(pkgs []panel.HostingPackage, name string) *panel.HostingPackage {
	for i := range pkgs {
		if strings.EqualFold(strings.TrimSpace(pkgs[i].Name), strings.TrimSpace(name)) {
			return &pkgs[i]
		}
	}
	return nil
}

func findCycle(cycles []panel.BillingCycle, id int) *panel.BillingCycle {
	for i := range cycles {
		if cycles[i].ID == id {
			return &cycles[i]
		}
	}
	return nil
}

func findCycleByName(cycles []panel.BillingCycle, name string) *panel.BillingCycle {
	for i := range cycles {
		if strings.EqualFold(strings.TrimSpace(cycles[i].Name), strings.TrimSpace(name)) {
			return &cycles[i]
		}
	}
	return nil
}
