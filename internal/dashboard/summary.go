package dashboard

import (
	"context"
	"sync"

	"github.com/hansos/DR-Admin-sub001/internal/panel"
)

// Invoice states the summary panel reports on.
const (
	StatusUnpaid        = "unpaid"
	StatusOverdue       = "overdue"
	StatusPaidThisMonth = "paid-this-month"
)

// Section is one invoice-status tile: totals when the query succeeded,
// an error label otherwise.
type Section struct {
	Status string               `json:"status"`
	Totals *panel.InvoiceTotals `json:"totals,omitempty"`
	Err    string               `json:"error,omitempty"`
}

type Summary struct {
	Unpaid        Section `json:"unpaid"`
	Overdue       Section `json:"overdue"`
	PaidThisMonth Section `json:"paidThisMonth"`
}

// Load issues the three invoice-status queries concurrently. Each is
// evaluated independently; a failed query labels its own tile and the
// rest of the summary still renders.
func Load(ctx context.Context, api panel.API) Summary {
	sections := [3]Section{
		{Status: StatusUnpaid},
		{Status: StatusOverdue},
		{Status: StatusPaidThisMonth},
	}

	var wg sync.WaitGroup
	wg.Add(len(sections))
	for i := range sections {
		go func(s *Section) {
			defer wg.Done()
			totals, err := api.InvoiceSummary(ctx, s.Status)
			if err != nil {
				s.Err = err.Error()
				return
			}
			s.Totals = &totals
		}(&sections[i])
	}
	wg.Wait()

	return Summary{
		Unpaid:        sections[0],
		Overdue:       sections[1],
		PaidThisMonth: sections[2],
	}
}
