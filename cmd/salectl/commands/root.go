package commands

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hansos/DR-Admin-sub001/internal/auth"
	"github.com/hansos/DR-Admin-sub001/internal/config"
	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/output"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
	"github.com/hansos/DR-Admin-sub001/internal/wizard"
)

var (
	baseURLFlag string
	quiet       bool

	rt *runtime
)

type runtime struct {
	cfg       *config.Config
	store     *state.FileStore
	flow      *wizard.Flow
	out       *output.Writer
	errOut    io.Writer
	requestID string
}

func Execute() error {
	root := &cobra.Command{
		Use:           "salectl",
		Short:         "Operator CLI for the reseller panel's new-sale wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "failed loading config", err)
			}
			dir, err := config.EnsureDir()
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "failed preparing config dir", err)
			}
			base := config.BaseURL(cfg)
			if v := strings.TrimSpace(baseURLFlag); v != "" {
				base = strings.TrimSuffix(v, "/")
			}
			store := state.NewFileStore(dir)
			client := panel.NewClient(base, auth.Default())
			rt = &runtime{
				cfg:       cfg,
				store:     store,
				flow:      wizard.New(store, client),
				out:       output.NewWriter(os.Stdout),
				errOut:    os.Stderr,
				requestID: uuid.NewString(),
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "panel API base URL (overrides config and SALECTL_BASE_URL)")
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress warnings on stderr")

	root.AddCommand(saleCmd(), dashboardCmd(), versionCmd())
	return root.Execute()
}

func emit(command string, result any) error {
	return rt.out.EmitJSON(command, rt.requestID, result, nil)
}

// emitErr converts any failure into the output envelope and returns it
// so the process exit code reflects the error class.
func emitErr(command string, err error) error {
	var ae *apperr.AppError
	if !apperr.As(err, &ae) {
		ae = apperr.Wrap(apperr.CodeInternal, "unexpected failure", err)
	}
	if emitFail := rt.out.EmitJSON(command, rt.requestID, nil, ae); emitFail != nil && !quiet {
		output.LogErr(rt.errOut, "warning: failed writing output envelope: %v", emitFail)
	}
	return ae
}
