package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxItemKind enum constants
type TaxItemKind string

const (
	TaxItemKindFixed       TaxItemKind = "Fixed"
	TaxItemKindFlatRate    TaxItemKind = "FlatRate"
	TaxItemKindProgressive TaxItemKind = "Progressive"
)

// ParseTaxItemKind accepts Fixed, FlatRate (or "Flat Rate") and Progressive in any case
func ParseTaxItemKind(raw string) (TaxItemKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FIXED":
		return TaxItemKindFixed, true
	case "FLATRATE", "FLAT RATE":
		return TaxItemKindFlatRate, true
	case "PROGRESSIVE":
		return TaxItemKindProgressive, true
	}
	return "", false
}

// TaxParams is the kind-specific part of a TaxItem. Implemented only by
// FixedTax, FlatRateTax and ProgressiveTax.
type TaxParams interface {
	Kind() TaxItemKind
	isTaxParams()
}

// FixedTax is an absolute amount deducted before the taxable base is computed
type FixedTax struct {
	Amount *decimal.Decimal // nil when not supplied
}

// FlatRateTax is a single percentage applied to the whole taxable base
type FlatRateTax struct {
	RatePercent *decimal.Decimal // 0..100, nil when not supplied
}

// ProgressiveTax applies marginal rates to bands of the taxable base
type ProgressiveTax struct {
	Brackets []ProgressiveBracket
}

func (FixedTax) Kind() TaxItemKind       { return TaxItemKindFixed }
func (FlatRateTax) Kind() TaxItemKind    { return TaxItemKindFlatRate }
func (ProgressiveTax) Kind() TaxItemKind { return TaxItemKindProgressive }

func (FixedTax) isTaxParams()       {}
func (FlatRateTax) isTaxParams()    {}
func (ProgressiveTax) isTaxParams() {}

// ProgressiveBracket is the lower bound of a band and the rate applied inside it
type ProgressiveBracket struct {
	Threshold   decimal.Decimal
	RatePercent decimal.Decimal
}

// TaxItem is one line of a country's rule
type TaxItem struct {
	Name   string
	Params TaxParams
}

// Kind returns the item's kind, or "" when Params is unset
func (i TaxItem) Kind() TaxItemKind {
	if i.Params == nil {
		return ""
	}
	return i.Params.Kind()
}

func NewFixedTax(name string, amount *decimal.Decimal) TaxItem {
	return TaxItem{Name: itemName(name, TaxItemKindFixed), Params: FixedTax{Amount: amount}}
}

func NewFlatRateTax(name string, ratePercent *decimal.Decimal) TaxItem {
	return TaxItem{Name: itemName(name, TaxItemKindFlatRate), Params: FlatRateTax{RatePercent: ratePercent}}
}

func NewProgressiveTax(name string, brackets []ProgressiveBracket) TaxItem {
	return TaxItem{Name: itemName(name, TaxItemKindProgressive), Params: ProgressiveTax{Brackets: brackets}}
}

func itemName(name string, kind TaxItemKind) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return string(kind)
	}
	return name
}

// CountryTaxRule is the ordered set of tax items configured for a country.
// Validity (non-empty, at most one progressive item) is checked by the validator, not here.
type CountryTaxRule struct {
	CountryCode string
	TaxItems    []TaxItem
}

// Clone returns a deep copy so stored rules never share slices with callers
func (r CountryTaxRule) Clone() CountryTaxRule {
	items := make([]TaxItem, len(r.TaxItems))
	for i, item := range r.TaxItems {
		items[i] = item
		switch p := item.Params.(type) {
		case FixedTax:
			items[i].Params = FixedTax{Amount: cloneDecimal(p.Amount)}
		case FlatRateTax:
			items[i].Params = FlatRateTax{RatePercent: cloneDecimal(p.RatePercent)}
		case ProgressiveTax:
			var brackets []ProgressiveBracket
			if p.Brackets != nil {
				brackets = make([]ProgressiveBracket, len(p.Brackets))
				copy(brackets, p.Brackets)
			}
			items[i].Params = ProgressiveTax{Brackets: brackets}
		}
	}
	return CountryTaxRule{CountryCode: r.CountryCode, TaxItems: items}
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// NormalizeCountryCode is the canonical form used for every store lookup
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// TaxBreakdownEntry is one contributing tax item in a calculation result
type TaxBreakdownEntry struct {
	Name   string
	Amount decimal.Decimal
}

// TaxCalculationResult is produced fresh on every calculation
type TaxCalculationResult struct {
	Gross       decimal.Decimal
	TaxableBase decimal.Decimal
	TotalTaxes  decimal.Decimal
	Breakdown   []TaxBreakdownEntry
	NetSalary   decimal.Decimal
}
