package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/staffing-plan-assistant/internal/core/assistant"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/intent"
	"github.com/ogurasousui/staffing-plan-assistant/internal/core/staffing"
)

func newParseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <befehl>",
		Short: "Befehl nur erkennen, nichts ausführen",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := intent.Parse(joinArgs(args))
			if !ok {
				return describeError(assistant.ErrUnrecognizedCommand)
			}
			return app.print(parsed)
		},
	}
}

func newRunCmd(app *App) *cobra.Command {
	var (
		table    string
		site     string
		year     int
		fallback bool
	)

	cmd := &cobra.Command{
		Use:   "run <befehl>",
		Short: "Befehl erkennen und ausführen",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := assistant.RunCommandInput{
				Command:       joinArgs(args),
				Table:         table,
				Site:          site,
				AllowFallback: fallback,
			}
			if cmd.Flags().Changed("year") {
				in.Year = &year
			}

			return app.withUseCase(cmd.Context(), func(uc assistant.UseCase) error {
				out, err := uc.RunCommand(cmd.Context(), in)
				if err != nil {
					return describeError(err)
				}
				if out.Fallback != nil {
					return app.print(map[string]any{
						"executed":       false,
						"interpretation": out.Fallback,
						"command":        out.Fallback.Command(),
					})
				}
				return app.print(map[string]any{
					"executed":  true,
					"parsed":    out.Parsed,
					"kind":      out.Result.Kind(),
					"result":    out.Result,
					"plan_year": out.PlanYear,
				})
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "target site table (stellenplan_*)")
	cmd.Flags().StringVar(&site, "site", "", "site recorded in the audit log")
	cmd.Flags().IntVar(&year, "year", 0, "plan year used when the command names none")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "ask the interpreter when no pattern matches")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newInterpretCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "interpret <befehl>",
		Short: "Befehl nur vom Sprachmodell deuten lassen",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withUseCase(cmd.Context(), func(uc assistant.UseCase) error {
				interpretation, err := uc.InterpretCommand(cmd.Context(), joinArgs(args))
				if err != nil {
					return describeError(err)
				}
				return app.print(map[string]any{
					"interpretation": interpretation,
					"command":        interpretation.Command(),
				})
			})
		},
	}
}

func newAuditCmd(app *App) *cobra.Command {
	var (
		site  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Letzte Einträge des Protokolls anzeigen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withUseCase(cmd.Context(), func(uc assistant.UseCase) error {
				entries, err := uc.ListAudit(cmd.Context(), site, limit)
				if err != nil {
					return describeError(err)
				}
				return app.print(entries)
			})
		},
	}

	cmd.Flags().StringVar(&site, "site", "", "site whose entries are listed")
	cmd.Flags().IntVar(&limit, "limit", 15, "number of entries (max 100)")
	return cmd
}

func newRolloverCmd(app *App) *cobra.Command {
	var (
		in   staffing.RolloverInput
		mode string
		site string
	)

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Monatswerte eines Planjahres ins Folgejahr übernehmen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Mode = staffing.RolloverMode(mode)
			return app.withUseCase(cmd.Context(), func(uc assistant.UseCase) error {
				result, err := uc.Rollover(cmd.Context(), assistant.RolloverInput{RolloverInput: in, Site: site})
				if err != nil {
					return describeError(err)
				}
				return app.print(result)
			})
		},
	}

	cmd.Flags().StringVar(&in.Table, "table", "", "target site table (stellenplan_*)")
	cmd.Flags().IntVar(&in.FromYear, "from", 0, "source plan year")
	cmd.Flags().IntVar(&in.ToYear, "to", 0, "target plan year")
	cmd.Flags().StringSliceVar(&in.IDs, "ids", nil, "row ids to copy")
	cmd.Flags().StringVar(&in.Department, "dept", "", "restrict to a department")
	cmd.Flags().StringVar(&mode, "mode", string(staffing.RolloverFill), fmt.Sprintf("%s or %s", staffing.RolloverFill, staffing.RolloverOverwrite))
	cmd.Flags().StringVar(&site, "site", "", "site recorded in the audit log")
	for _, name := range []string{"table", "from", "to", "ids"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
