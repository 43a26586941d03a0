package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/urlstate"
)

func newComputeCmd(app *App) *cobra.Command {
	var flags planFlags
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Allocate leave and show budgets, income and warnings",
		Example: `  planner compute --birth 2026-03-02 --salary 4000
  planner compute --token eyJiIjoi... --salary 4000
  planner compute --birth 2026-03-02 --salary 4000 --period "v+o:2026-11-30:2027-01-29"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.session(cmd, app)
			if err != nil {
				return err
			}
			plan := s.Plan()
			if !plan.Input.HasBirthDate() {
				return fmt.Errorf("%w: a birth date is required (--birth or --token)", generic.ErrInvalidInput)
			}
			renderResult(cmd.OutOrStdout(), plan, s.Compute())
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newEncodeCmd(app *App) *cobra.Command {
	var (
		flags   planFlags
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the share token for a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.session(cmd, app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if baseURL != "" {
				link, err := urlstate.ShareURL(baseURL, s.State())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, link)
				return nil
			}
			token, err := urlstate.Encode(s.State())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, token)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&baseURL, "base-url", "", "print a share URL on this base instead of the bare token")
	return cmd
}

func newDecodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN|URL",
		Short: "Show the configuration stored in a share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := decodeTokenOrURL(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Geboortedatum:  %s\n", dateOrDash(state.BirthDate))
			fmt.Fprintf(out, "Werkweek:       %s (%.0f uur)\n", weekSummary(state.WorkWeek), state.WorkWeek.HoursPerWeek)
			fmt.Fprintf(out, "Vakantiedagen:  %d per jaar\n", state.AnnualBudget)

			section(out, "Periodes")
			rows := make([][]string, 0, len(state.Periods))
			for _, p := range state.Periods {
				rows = append(rows, []string{p.ID, typeCodes(p.Types), p.Start.Key(), p.End.Key(), dayLetters(p.Days), weeksLabel(p)})
			}
			fmt.Fprint(out, renderTable([]string{"#", "Types", "Van", "Tot", "Dagen", "Weken"}, rows))

			if len(state.ManualDays) > 0 {
				section(out, "Handmatige dagen")
				manual := leave.DayMap(state.ManualDays)
				rows = rows[:0]
				for _, k := range manual.Keys() {
					rows = append(rows, []string{k, manual[k].Rule().Label})
				}
				fmt.Fprint(out, renderTable([]string{"Datum", "Type"}, rows))
			}
			return nil
		},
	}
}

func typeCodes(types []leave.Type) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += "+"
		}
		s += t.Code()
	}
	return s
}

func weeksLabel(p leave.Period) string {
	if p.EveryWeek {
		return "elke week"
	}
	switch p.WeekFilter {
	case leave.WeekFilterEven:
		return "even weken"
	case leave.WeekFilterOdd:
		return "oneven weken"
	}
	return "elke week"
}
