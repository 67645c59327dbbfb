package commands

import (
	"github.com/spf13/cobra"

	"github.com/hansos/DR-Admin-sub001/internal/dashboard"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show invoice summary counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Sections degrade independently; a failed counter
			// carries its error in place of totals.
			sum := dashboard.Load(cmd.Context(), rt.flow.Panel)
			return emit("dashboard", sum)
		},
	}
}
