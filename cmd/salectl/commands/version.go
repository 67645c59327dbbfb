package commands

import (
	goruntime "runtime"

	"github.com/spf13/cobra"
)

// Version metadata is populated at build time via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit("version", map[string]any{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"go_version": goruntime.Version(),
				"os":         goruntime.GOOS,
				"arch":       goruntime.GOARCH,
			})
		},
	}
}
