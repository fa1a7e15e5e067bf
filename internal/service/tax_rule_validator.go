package service

import (
	"taxcal/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateTaxRule decides whether a rule may be stored. Checks run in a fixed
// order so the reported error is deterministic: empty list, progressive count,
// then each item in list order (first failure wins). The rule is not modified.
func ValidateTaxRule(rule model.CountryTaxRule) error {
	if len(rule.TaxItems) == 0 {
		return ErrEmptyRule
	}

	progressive := 0
	for _, item := range rule.TaxItems {
		if item.Kind() == model.TaxItemKindProgressive {
			progressive++
		}
	}
	if progressive > 1 {
		return ErrTooManyProgressive
	}

	for i, item := range rule.TaxItems {
		if reason := validateItemParams(item); reason != "" {
			return &InvalidItemError{Index: i, Name: item.Name, Kind: item.Kind(), Reason: reason}
		}
	}
	return nil
}

func validateItemParams(item model.TaxItem) string {
	switch p := item.Params.(type) {
	case model.FixedTax:
		if p.Amount == nil {
			return "must have an amount"
		}
		if p.Amount.IsNegative() {
			return "must have a non-negative amount"
		}
	case model.FlatRateTax:
		if p.RatePercent == nil {
			return "must have a ratePercent"
		}
		if p.RatePercent.IsNegative() || p.RatePercent.GreaterThan(hundred) {
			return "must have ratePercent between 0 and 100"
		}
	case model.ProgressiveTax:
		if len(p.Brackets) == 0 {
			return "must have at least one bracket"
		}
	default:
		return "has no type (use Fixed, FlatRate, or Progressive)"
	}
	return ""
}
