/*
Package factory provides document to Go conversion for tax tables.

PURPOSE:
  Converts JSON or YAML tax year definitions into finance.TaxYear values.
  New tax years are published every December; with a table file they can be
  added without a code change.

SCHEMA (YAML shown, JSON uses the same keys):
  years:
    - year: 2027
      brackets:
        - upper_limit: 38883
          rate: "0.3575"
        - upper_limit: 78426
          rate: "0.3756"
        - rate: "0.495"          # no upper_limit = unbounded
      general_credit:
        max: 3115
        phase_out_rate: "0.06398"
        phase_out_from: 29736
      labor_credit:
        - upper_limit: 11965
          base_amount: 0
          rate: "0.08324"
          from_amount: 0
        - rate: "0"
          from_amount: 132920

  Amounts may be written as numbers or strings; strings avoid float rounding
  of rates. A single year may also be given without the "years" wrapper.

USAGE:
  f := factory.NewTaxTableFactory()
  years, err := f.LoadFile("tax-tables.yaml")
  tables := finance.NewTaxTables()
  for _, y := range years {
      tables.Register(y)
  }

SEE ALSO:
  - finance/tax.go: TaxYear and the built-in 2026 table
  - store/sqlite/sqlite.go: persisted tax years
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// TaxTableDoc is the document representation of a set of tax years.
type TaxTableDoc struct {
	Years []TaxYearDoc `json:"years" yaml:"years"`
}

// TaxYearDoc is the document representation of one tax year.
type TaxYearDoc struct {
	Year          int              `json:"year" yaml:"year"`
	Brackets      []BracketDoc     `json:"brackets" yaml:"brackets"`
	GeneralCredit GeneralCreditDoc `json:"general_credit" yaml:"general_credit"`
	LaborCredit   []LaborCreditDoc `json:"labor_credit,omitempty" yaml:"labor_credit,omitempty"`
}

// BracketDoc is one income tax bracket. A missing upper limit is unbounded.
type BracketDoc struct {
	UpperLimit *Amount `json:"upper_limit,omitempty" yaml:"upper_limit,omitempty"`
	Rate       Amount  `json:"rate" yaml:"rate"`
}

// GeneralCreditDoc is the algemene heffingskorting.
type GeneralCreditDoc struct {
	Max          Amount `json:"max" yaml:"max"`
	PhaseOutRate Amount `json:"phase_out_rate" yaml:"phase_out_rate"`
	PhaseOutFrom Amount `json:"phase_out_from" yaml:"phase_out_from"`
}

// LaborCreditDoc is one arbeidskorting step.
type LaborCreditDoc struct {
	UpperLimit *Amount `json:"upper_limit,omitempty" yaml:"upper_limit,omitempty"`
	BaseAmount Amount  `json:"base_amount" yaml:"base_amount"`
	Rate       Amount  `json:"rate" yaml:"rate"`
	FromAmount Amount  `json:"from_amount" yaml:"from_amount"`
}

// Amount is a decimal that accepts both numbers and strings.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON accepts 0.3575 as well as "0.3575".
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("amount %s: %w", data, err)
	}
	a.Decimal = d
	return nil
}

// MarshalJSON writes the amount as a string to keep every digit.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Decimal.String())
}

// UnmarshalYAML accepts scalar numbers and strings.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount at line %d: expected a scalar", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("amount at line %d: %w", node.Line, err)
	}
	a.Decimal = d
	return nil
}

// MarshalYAML writes the amount as a string.
func (a Amount) MarshalYAML() (interface{}, error) {
	return a.Decimal.String(), nil
}

func amount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func optional(a *Amount) decimal.NullDecimal {
	if a == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal)
}

func fromOptional(n decimal.NullDecimal) *Amount {
	if !n.Valid {
		return nil
	}
	a := amount(n.Decimal)
	return &a
}

// =============================================================================
// TAX TABLE FACTORY
// =============================================================================

// TaxTableFactory converts tax table documents to finance.TaxYear values.
type TaxTableFactory struct{}

// NewTaxTableFactory creates a new tax table factory.
func NewTaxTableFactory() *TaxTableFactory {
	return &TaxTableFactory{}
}

// ParseJSON parses a JSON document holding one year or a "years" list.
func (f *TaxTableFactory) ParseJSON(data []byte) ([]finance.TaxYear, error) {
	doc, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse tax table JSON: %v", generic.ErrInvalidTaxTable, err)
	}
	return f.FromDoc(doc)
}

// ParseYAML parses a YAML document holding one year or a "years" list.
func (f *TaxTableFactory) ParseYAML(data []byte) ([]finance.TaxYear, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse tax table YAML: %v", generic.ErrInvalidTaxTable, err)
	}
	return f.FromDoc(doc)
}

// LoadFile reads a table file, choosing the format by extension. Files
// without a .json extension are read as YAML, which also accepts JSON.
func (f *TaxTableFactory) LoadFile(path string) ([]finance.TaxYear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tax tables: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return f.ParseJSON(data)
	}
	return f.ParseYAML(data)
}

// FromDoc converts and validates every year of doc. Duplicate years are
// rejected.
func (f *TaxTableFactory) FromDoc(doc TaxTableDoc) ([]finance.TaxYear, error) {
	if len(doc.Years) == 0 {
		return nil, fmt.Errorf("%w: document has no years", generic.ErrInvalidTaxTable)
	}
	seen := make(map[int]bool, len(doc.Years))
	out := make([]finance.TaxYear, 0, len(doc.Years))
	for _, yd := range doc.Years {
		if seen[yd.Year] {
			return nil, fmt.Errorf("%w: year %d defined twice", generic.ErrInvalidTaxTable, yd.Year)
		}
		seen[yd.Year] = true

		y := f.FromYearDoc(yd)
		if err := y.Validate(); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, nil
}

// FromYearDoc converts one year without validating it.
func (f *TaxTableFactory) FromYearDoc(yd TaxYearDoc) finance.TaxYear {
	y := finance.TaxYear{
		Year: yd.Year,
		GeneralCredit: finance.GeneralCredit{
			Max:          yd.GeneralCredit.Max.Decimal,
			PhaseOutRate: yd.GeneralCredit.PhaseOutRate.Decimal,
			PhaseOutFrom: yd.GeneralCredit.PhaseOutFrom.Decimal,
		},
	}
	for _, b := range yd.Brackets {
		y.Brackets = append(y.Brackets, finance.Bracket{
			UpperLimit: optional(b.UpperLimit),
			Rate:       b.Rate.Decimal,
		})
	}
	for _, s := range yd.LaborCredit {
		y.LaborCredit = append(y.LaborCredit, finance.LaborCreditStep{
			UpperLimit: optional(s.UpperLimit),
			BaseAmount: s.BaseAmount.Decimal,
			Rate:       s.Rate.Decimal,
			FromAmount: s.FromAmount.Decimal,
		})
	}
	return y
}

// ToDoc converts a TaxYear back to its document form.
func (f *TaxTableFactory) ToDoc(y finance.TaxYear) TaxYearDoc {
	yd := TaxYearDoc{
		Year: y.Year,
		GeneralCredit: GeneralCreditDoc{
			Max:          amount(y.GeneralCredit.Max),
			PhaseOutRate: amount(y.GeneralCredit.PhaseOutRate),
			PhaseOutFrom: amount(y.GeneralCredit.PhaseOutFrom),
		},
	}
	for _, b := range y.Brackets {
		yd.Brackets = append(yd.Brackets, BracketDoc{
			UpperLimit: fromOptional(b.UpperLimit),
			Rate:       amount(b.Rate),
		})
	}
	for _, s := range y.LaborCredit {
		yd.LaborCredit = append(yd.LaborCredit, LaborCreditDoc{
			UpperLimit: fromOptional(s.UpperLimit),
			BaseAmount: amount(s.BaseAmount),
			Rate:       amount(s.Rate),
			FromAmount: amount(s.FromAmount),
		})
	}
	return yd
}

// MarshalYAML renders years as a YAML table document.
func (f *TaxTableFactory) MarshalYAML(years ...finance.TaxYear) ([]byte, error) {
	doc := TaxTableDoc{}
	for _, y := range years {
		doc.Years = append(doc.Years, f.ToDoc(y))
	}
	return yaml.Marshal(doc)
}

// =============================================================================
// DECODING HELPERS
// =============================================================================

// decodeJSON accepts {"years": [...]} as well as a bare year object.
func decodeJSON(data []byte) (TaxTableDoc, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return TaxTableDoc{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if _, ok := probe["years"]; ok {
		var doc TaxTableDoc
		err := dec.Decode(&doc)
		return doc, err
	}
	var yd TaxYearDoc
	if err := dec.Decode(&yd); err != nil {
		return TaxTableDoc{}, err
	}
	return TaxTableDoc{Years: []TaxYearDoc{yd}}, nil
}

func decodeYAML(data []byte) (TaxTableDoc, error) {
	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return TaxTableDoc{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if _, ok := probe["years"]; ok {
		var doc TaxTableDoc
		err := dec.Decode(&doc)
		return doc, err
	}
	var yd TaxYearDoc
	if err := dec.Decode(&yd); err != nil {
		return TaxTableDoc{}, err
	}
	return TaxTableDoc{Years: []TaxYearDoc{yd}}, nil
}
