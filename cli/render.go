package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
	"github.com/warp/leave-planner/planner"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorRed    = lipgloss.Color("#fb4934")
	colorYellow = lipgloss.Color("#fabd2f")

	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleTitle  = lipgloss.NewStyle().Bold(true).Underline(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
)

const colGap = 2

// renderTable renders an aligned table with a header separator line.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeRow(sep, func(s string) string { return styleDim.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render(title))
}

// renderResult prints everything derived from a plan.
func renderResult(w io.Writer, plan planner.Plan, res planner.Result) {
	in := plan.Input
	fmt.Fprintf(w, "Geboortedatum: %s\n", dateOrDash(in.BirthDate))
	fmt.Fprintf(w, "Maandsalaris:  %s\n", finance.FormatEuro(in.MonthlySalary))
	fmt.Fprintf(w, "Werkweek:      %s (%.0f uur)\n", weekSummary(in.WorkWeek), in.WorkWeek.HoursPerWeek)

	section(w, "Verlofdagen")
	counts := res.DayMap.CountByType()
	rows := make([][]string, 0, len(leave.Types))
	for _, t := range leave.Types {
		if counts[t] == 0 {
			continue
		}
		rows = append(rows, []string{t.Rule().Label, fmt.Sprint(counts[t]), firstLast(res.DayMap, t)})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, styleDim.Render("Geen verlofdagen gepland."))
	} else {
		fmt.Fprint(w, renderTable([]string{"Type", "Dagen", "Periode"}, rows))
	}
	if n := len(res.Overlaps); n > 0 {
		fmt.Fprintln(w, styleWarn.Render(fmt.Sprintf("%d dag(en) vallen in meerdere periodes.", n)))
	}

	section(w, "Budget")
	rows = rows[:0]
	for _, b := range res.Budgets {
		maxDays, remaining := fmt.Sprint(b.Max), fmt.Sprint(b.Remaining())
		if b.Unlimited {
			maxDays, remaining = "-", "-"
		}
		used := fmt.Sprint(b.Used)
		if b.Overflows() {
			used = styleRed.Render(used)
		}
		rows = append(rows, []string{b.Label, used, maxDays, remaining})
	}
	fmt.Fprint(w, renderTable([]string{"Type", "Gebruikt", "Max", "Over"}, rows))

	if !res.Financial.IsEmpty() {
		renderFinancial(w, res)
	}

	if len(res.Warnings) > 0 {
		section(w, "Waarschuwingen")
		for _, msg := range res.Warnings {
			fmt.Fprintln(w, styleWarn.Render("! "+msg))
		}
	}
}

func renderFinancial(w io.Writer, res planner.Result) {
	fin := res.Financial

	section(w, "Inkomen per verloftype (bruto)")
	rows := make([][]string, 0, len(fin.PerType))
	for _, r := range fin.PerType {
		rows = append(rows, []string{
			r.Label,
			fmt.Sprint(r.Days),
			finance.FormatEuro(r.DailyIncome),
			finance.FormatEuro(r.TotalIncome),
			finance.FormatEuro(r.Difference),
		})
	}
	fmt.Fprint(w, renderTable([]string{"Type", "Dagen", "Per dag", "Totaal", "Verschil"}, rows))

	section(w, "Per maand")
	net := map[string]finance.NetMonthRow{}
	if res.Net != nil {
		for _, n := range res.Net.Monthly {
			net[fmt.Sprintf("%s %d", n.Month, n.Year)] = n
		}
	}
	rows = rows[:0]
	for _, m := range fin.Monthly {
		key := fmt.Sprintf("%s %d", m.Month, m.Year)
		netDiff := "-"
		if n, ok := net[key]; ok {
			netDiff = finance.FormatEuro(n.NetDifference)
		}
		rows = append(rows, []string{
			key,
			fmt.Sprintf("%d/%d", m.LeaveDays, m.WorkingDays),
			finance.FormatEuro(m.NormalIncome),
			finance.FormatEuro(m.ActualIncome),
			finance.FormatEuro(m.Difference),
			netDiff,
		})
	}
	fmt.Fprint(w, renderTable([]string{"Maand", "Verlof", "Normaal", "Werkelijk", "Verschil", "Netto verschil"}, rows))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Totaal bruto verschil: %s\n", finance.FormatEuro(fin.TotalDifference))
	if res.Net != nil {
		fmt.Fprintf(w, "Totaal netto verschil: %s (belastingjaar %d", finance.FormatEuro(res.Net.TotalNetDifference), res.Net.TaxYear)
		if res.Net.TableYear != res.Net.TaxYear {
			fmt.Fprintf(w, ", tabel %d", res.Net.TableYear)
		}
		fmt.Fprintln(w, ")")
	}
}

func dateOrDash(d generic.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Key()
}

func weekSummary(p leave.WorkWeekPattern) string {
	even := dayLetters(p.EvenWeek)
	if !p.IsAlternating() {
		return even
	}
	return fmt.Sprintf("even %s, oneven %s", even, dayLetters(p.OddWeek))
}

func dayLetters(days [5]bool) string {
	parts := make([]string, 0, 5)
	for i, on := range days {
		if on {
			parts = append(parts, generic.DutchDayAbbreviation(i))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func firstLast(m leave.DayMap, t leave.Type) string {
	var first, last string
	for _, k := range m.Keys() {
		if m[k] != t {
			continue
		}
		if first == "" {
			first = k
		}
		last = k
	}
	if first == last {
		return first
	}
	return first + " t/m " + last
}
