package cli

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
)

func newHolidaysCmd(app *App) *cobra.Command {
	var (
		year  int
		extra []string
	)
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List national holidays that fall on a weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = generic.Today().Year()
			}
			custom, err := parseHolidays(extra)
			if err != nil {
				return err
			}

			type row struct {
				h      generic.Holiday
				source string
			}
			var list []row
			for _, h := range app.Dutch.Holidays(year) {
				list = append(list, row{h, "nationaal"})
			}
			for _, h := range custom.InYear(year) {
				list = append(list, row{h, "eigen"})
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				from, to := app.Dutch.Range()
				fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("Geen feestdagen bekend voor %d (tabel %d-%d).", year, from, to)))
				return nil
			}
			sort.SliceStable(list, func(i, j int) bool { return list[i].h.Date.Before(list[j].h.Date) })

			rows := make([][]string, 0, len(list))
			for _, r := range list {
				rows = append(rows, []string{r.h.Date.Key(), generic.DutchDayAbbreviation(r.h.Date.WeekdayIndex()), r.h.Name, r.source})
			}
			fmt.Fprint(out, renderTable([]string{"Datum", "Dag", "Feestdag", "Bron"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current year)")
	cmd.Flags().StringArrayVar(&extra, "holiday", nil, `extra holiday DATE=NAME to list alongside the national ones`)
	return cmd
}

func newTaxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Export or check income tax tables",
	}
	cmd.AddCommand(newTaxExportCmd(app), newTaxCheckCmd(app))
	return cmd
}

func newTaxExportCmd(app *App) *cobra.Command {
	var years []int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print tax tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) == 0 {
				years = app.TaxTables.Years()
			}
			selected := make([]finance.TaxYear, 0, len(years))
			for _, y := range years {
				if !app.TaxTables.Has(y) {
					return fmt.Errorf("%w: no tax table for %d", generic.ErrInvalidTaxTable, y)
				}
				selected = append(selected, app.TaxTables.Lookup(y))
			}
			data, err := factory.NewTaxTableFactory().MarshalYAML(selected...)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntSliceVar(&years, "year", nil, "years to export (default: all)")
	return cmd
}

func newTaxCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a YAML or JSON tax table file and show its net incomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years, err := factory.NewTaxTableFactory().LoadFile(args[0])
			if err != nil {
				return err
			}
			samples := []int64{30_000, 50_000, 80_000}
			headers := []string{"Jaar", "Schijven"}
			for _, g := range samples {
				headers = append(headers, "Netto "+finance.FormatEuro(decimal.NewFromInt(g)))
			}
			rows := make([][]string, 0, len(years))
			for _, y := range years {
				row := []string{fmt.Sprint(y.Year), fmt.Sprint(len(y.Brackets))}
				for _, g := range samples {
					row = append(row, finance.FormatEuro(finance.AnnualNet(decimal.NewFromInt(g), y)))
				}
				rows = append(rows, row)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}
}
