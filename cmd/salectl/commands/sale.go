package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
	"github.com/hansos/DR-Admin-sub001/internal/panel"
	"github.com/hansos/DR-Admin-sub001/internal/state"
	"github.com/hansos/DR-Admin-sub001/internal/wizard"
)

func saleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Walk the new-sale wizard step by step",
	}
	cmd.AddCommand(
		saleStartCmd(),
		saleFlowCmd(),
		saleCustomerCmd(),
		saleHostingCmd(),
		saleServicesCmd(),
		saleStatusCmd(),
		saleResetCmd(),
	)
	return cmd
}

// sale start: step 1 entry point. Persists registrar + domain, then
// runs the availability check.
func saleStartCmd() *cobra.Command {
	var registrarID string
	cmd := &cobra.Command{
		Use:   "start <domain>",
		Short: "Pick a registrar and check domain availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			regs, err := rt.flow.Registrars(ctx)
			if err != nil {
				return emitErr("sale start", err)
			}
			reg, err := pickRegistrar(regs, registrarID, rt.cfg.DefaultRegistrarID)
			if err != nil {
				return emitErr("sale start", err)
			}
			if err := rt.flow.SelectRegistrar(reg); err != nil {
				return emitErr("sale start", err)
			}
			if err := rt.flow.SetDomain(args[0]); err != nil {
				return emitErr("sale start", err)
			}
			check, err := rt.flow.CheckDomain(ctx)
			if err != nil {
				return emitErr("sale start", err)
			}
			return emit("sale start", map[string]any{
				"registrar": reg,
				"check":     check,
			})
		},
	}
	cmd.Flags().StringVar(&registrarID, "registrar-id", "", "registrar to check with (default: configured, else first active)")
	return cmd
}

func pickRegistrar(regs []panel.Registrar, flagID, configID string) (panel.Registrar, error) {
	want := strings.TrimSpace(flagID)
	if want == "" {
		want = strings.TrimSpace(configID)
	}
	if want == "" {
		if len(regs) == 0 {
			return panel.Registrar{}, apperr.New(apperr.CodeAPI, "no active registrars available")
		}
		return regs[0], nil
	}
	for _, r := range regs {
		if r.ID == want {
			return r, nil
		}
	}
	return panel.Registrar{}, apperr.WithDetails(
		apperr.New(apperr.CodeValidation, "registrar not in active list"),
		map[string]any{"registrar_id": want},
	)
}

func saleFlowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flow <register|transfer|renew>",
		Short: "Commit to a domain operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.flow.BeginFlow(state.FlowType(args[0])); err != nil {
				return emitErr("sale flow", err)
			}
			return emit("sale flow", map[string]any{"flowType": args[0]})
		},
	}
}

func saleCustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Resolve the customer for this sale",
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search customers; a single match is selected automatically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.flow.ResolveCustomer(cmd.Context(), args[0])
			if err != nil {
				return emitErr("sale customer search", err)
			}
			return emit("sale customer search", res)
		},
	}

	var query string
	selectCmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Select one customer from the last search's matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return emitErr("sale customer select", apperr.New(apperr.CodeValidation, "customer id must be a number"))
			}
			res, err := rt.flow.ResolveCustomer(cmd.Context(), query)
			if err != nil {
				return emitErr("sale customer select", err)
			}
			for _, m := range append(res.Matches, selectedAsMatch(res)...) {
				if m.ID == id {
					if err := rt.flow.SelectCustomer(m); err != nil {
						return emitErr("sale customer select", err)
					}
					return emit("sale customer select", map[string]any{"selected": m})
				}
			}
			return emitErr("sale customer select", apperr.WithDetails(
				apperr.New(apperr.CodeValidation, "customer id not among matches"),
				map[string]any{"id": id},
			))
		},
	}
	selectCmd.Flags().StringVar(&query, "query", "", "search query that produced the match list")
	_ = selectCmd.MarkFlagRequired("query")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Drop the selected customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.flow.ClearCustomer(); err != nil {
				return emitErr("sale customer clear", err)
			}
			return emit("sale customer clear", map[string]any{"cleared": true})
		},
	}

	cmd.AddCommand(search, selectCmd, clear)
	return cmd
}

func selectedAsMatch(res wizard.CustomerResolution) []panel.Customer {
	if res.Selected == nil {
		return nil
	}
	return []panel.Customer{{
		ID:           res.Selected.ID,
		Name:         res.Selected.Name,
		CustomerName: res.Selected.CustomerName,
	}}
}

func saleHostingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosting",
		Short: "Step 2: hosting package and billing cycle",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "List active packages and cycles with any restored selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rt.flow.LoadHosting(cmd.Context())
			if err != nil {
				return emitErr("sale hosting show", err)
			}
			result := map[string]any{"catalog": cat}
			if cat.Restored != nil && cat.Restored.PackageID != nil && cat.Restored.CycleID != nil {
				pkg := findByID(cat.Packages, *cat.Restored.PackageID)
				cycle := findCycleByID(cat.Cycles, *cat.Restored.CycleID)
				result["pricePreview"] = wizard.PricePreview(pkg, cycle)
			} else {
				result["pricePreview"] = wizard.PricePlaceholder
			}
			return emit("sale hosting show", result)
		},
	}

	choose := &cobra.Command{
		Use:   "choose <package-id> <cycle-id>",
		Short: "Select a package and billing cycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgID, err1 := strconv.Atoi(args[0])
			cycleID, err2 := strconv.Atoi(args[1])
			if err1 != nil || err2 != nil {
				return emitErr("sale hosting choose", apperr.New(apperr.CodeValidation, "package and cycle ids must be numbers"))
			}
			cat, err := rt.flow.LoadHosting(cmd.Context())
			if err != nil {
				return emitErr("sale hosting choose", err)
			}
			if err := rt.flow.ChooseHosting(pkgID, cycleID, cat); err != nil {
				return emitErr("sale hosting choose", err)
			}
			preview := wizard.PricePreview(findByID(cat.Packages, pkgID), findCycleByID(cat.Cycles, cycleID))
			return emit("sale hosting choose", map[string]any{
				"hostingPackageId": pkgID,
				"billingCycleId":   cycleID,
				"pricePreview":     preview,
				"next":             wizard.PathStep3,
			})
		},
	}

	skip := &cobra.Command{
		Use:   "skip",
		Short: "Continue without hosting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.flow.SkipHosting(); err != nil {
				return emitErr("sale hosting skip", err)
			}
			return emit("sale hosting skip", map[string]any{
				"hostingSkipped": true,
				"next":           wizard.PathStep3,
			})
		},
	}

	cmd.AddCommand(show, choose, skip)
	return cmd
}

func findByID(pkgs []panel.HostingPackage, id int) *panel.HostingPackage {
	for i := range pkgs {
		if pkgs[i].ID == id {
			return &pkgs[i]
		}
	}
	return nil
}

func findCycleByID(cycles []panel.BillingCycle, id int) *panel.BillingCycle {
	for i := range cycles {
		if cycles[i].ID == id {
			return &cycles[i]
		}
	}
	return nil
}

func saleServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Step 3: add-on services and domain pricing",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "List categorized services, contacts and restored form values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := rt.flow.LoadServices(cmd.Context())
			if err != nil {
				return emitErr("sale services show", err)
			}
			return emit("sale services show", view)
		},
	}

	var (
		serviceIDs []int
		notes      string
		authCode   string
		years      int
		autoRenew  bool
		privacy    bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Record add-on selections and domain options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("ids") || cmd.Flags().Changed("notes") {
				if err := rt.flow.SetServices(serviceIDs, notes); err != nil {
					return emitErr("sale services set", err)
				}
			}
			if cmd.Flags().Changed("auto-renew") || cmd.Flags().Changed("privacy") {
				if err := rt.flow.SetDomainOptions(autoRenew, privacy); err != nil {
					return emitErr("sale services set", err)
				}
			}
			if cmd.Flags().Changed("auth-code") {
				if err := rt.flow.SetTransferAuthCode(authCode); err != nil {
					return emitErr("sale services set", err)
				}
			}
			if cmd.Flags().Changed("years") {
				if err := rt.flow.SetRegistrationYears(years); err != nil {
					return emitErr("sale services set", err)
				}
			}
			return emit("sale services set", rt.flow.State())
		},
	}
	set.Flags().IntSliceVar(&serviceIDs, "ids", nil, "selected service ids")
	set.Flags().StringVar(&notes, "notes", "", "custom service notes")
	set.Flags().StringVar(&authCode, "auth-code", "", "EPP transfer auth code")
	set.Flags().IntVar(&years, "years", 0, "registration period in years")
	set.Flags().BoolVar(&autoRenew, "auto-renew", false, "enable auto-renew")
	set.Flags().BoolVar(&privacy, "privacy", false, "enable privacy protection")

	price := &cobra.Command{
		Use:   "price",
		Short: "Compute and store the domain operation price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.flow.DomainOperationPrice(cmd.Context())
			if err != nil {
				return emitErr("sale services price", err)
			}
			return emit("sale services price", p)
		},
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Validate flow-specific fields and advance to the offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.flow.CompleteServices(); err != nil {
				return emitErr("sale services next", err)
			}
			return emit("sale services next", map[string]any{"next": wizard.PathOffer})
		},
	}

	cmd.AddCommand(show, set, price, next)
	return cmd
}

func saleStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the persisted sale state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := rt.flow.State()
			if st == nil {
				return emit("sale status", map[string]any{"state": nil, "step": wizard.PathStep1})
			}
			step := wizard.PathStep1
			if st.ReadyForLaterSteps() {
				step = wizard.PathStep2
				if st.HostingSkipped || st.HostingPackageID != nil {
					step = wizard.PathStep3
				}
			}
			return emit("sale status", map[string]any{"state": st, "step": step})
		},
	}
}

func saleResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the in-progress sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.store.Clear(); err != nil {
				return emitErr("sale reset", apperr.Wrap(apperr.CodeInternal, "failed clearing sale state", err))
			}
			return emit("sale reset", map[string]any{"cleared": true})
		},
	}
}
