package finance

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatEuro renders an amount the Dutch way, e.g. "€ 1.234,56".
func FormatEuro(amount decimal.Decimal) string {
	p := message.NewPrinter(language.Dutch)
	return p.Sprintf("€ %.2f", amount.Round(2).InexactFloat64())
}

// FormatPercent renders a salary percentage, e.g. "70%".
func FormatPercent(pct int) string {
	return message.NewPrinter(language.Dutch).Sprintf("%d%%", pct)
}
