package service

import (
	"slices"

	"taxcal/internal/model"

	"github.com/shopspring/decimal"
)

// CalculateTax turns a gross salary and a country rule into taxable base,
// per-item breakdown, total and net salary.
//
// Fixed amounts are deducted first to get the taxable base (floored at zero);
// flat-rate items and the progressive item are then applied to that base. The
// breakdown is emitted in that pass order: fixed, flat-rate, progressive.
// Absent amounts/rates count as zero. Arithmetic is exact; nothing is rounded.
func CalculateTax(gross decimal.Decimal, rule model.CountryTaxRule) (model.TaxCalculationResult, error) {
	if gross.IsNegative() {
		return model.TaxCalculationResult{}, ErrNegativeGross
	}

	breakdown := make([]model.TaxBreakdownEntry, 0, len(rule.TaxItems))

	fixedSum := decimal.Zero
	for _, item := range rule.TaxItems {
		p, ok := item.Params.(model.FixedTax)
		if !ok {
			continue
		}
		amount := valueOrZero(p.Amount)
		fixedSum = fixedSum.Add(amount)
		breakdown = append(breakdown, model.TaxBreakdownEntry{Name: item.Name, Amount: amount})
	}

	taxableBase := decimal.Max(decimal.Zero, gross.Sub(fixedSum))

	for _, item := range rule.TaxItems {
		p, ok := item.Params.(model.FlatRateTax)
		if !ok {
			continue
		}
		amount := taxableBase.Mul(percent(valueOrZero(p.RatePercent)))
		breakdown = append(breakdown, model.TaxBreakdownEntry{Name: item.Name, Amount: amount})
	}

	// Only the first progressive item counts; the validator keeps a second one out.
	for _, item := range rule.TaxItems {
		p, ok := item.Params.(model.ProgressiveTax)
		if !ok || len(p.Brackets) == 0 {
			continue
		}
		breakdown = append(breakdown, model.TaxBreakdownEntry{
			Name:   item.Name,
			Amount: progressiveTax(taxableBase, p.Brackets),
		})
		break
	}

	totalTaxes := decimal.Zero
	for _, entry := range breakdown {
		totalTaxes = totalTaxes.Add(entry.Amount)
	}

	return model.TaxCalculationResult{
		Gross:       gross,
		TaxableBase: taxableBase,
		TotalTaxes:  totalTaxes,
		Breakdown:   breakdown,
		NetSalary:   gross.Sub(totalTaxes),
	}, nil
}

// progressiveTax applies each bracket's rate to the slice of base between its
// threshold and the next one (the last bracket runs up to base).
func progressiveTax(base decimal.Decimal, brackets []model.ProgressiveBracket) decimal.Decimal {
	if !base.IsPositive() || len(brackets) == 0 {
		return decimal.Zero
	}

	sorted := slices.Clone(brackets)
	slices.SortStableFunc(sorted, func(a, b model.ProgressiveBracket) int {
		return a.Threshold.Cmp(b.Threshold)
	})

	tax := decimal.Zero
	for i, bracket := range sorted {
		upper := base
		if i < len(sorted)-1 {
			upper = sorted[i+1].Threshold
		}
		width := decimal.Max(decimal.Zero, decimal.Min(base, upper).Sub(bracket.Threshold))
		tax = tax.Add(width.Mul(percent(bracket.RatePercent)))
	}
	return tax
}

// percent scales a 0..100 rate to a fraction without division
func percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Shift(-2)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
