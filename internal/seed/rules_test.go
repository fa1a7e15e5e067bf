package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"taxcal/internal/repository"
	"taxcal/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seedYAML = `
rules:
  - countryCode: de
    taxItems:
      - type: Fixed
        name: CommunityTax
        amount: 100
      - type: FlatRate
        name: RadioTax
        ratePercent: "5"
  - countryCode: XY
    taxItems:
      - type: Fixed
        name: Fee
        amount: "100"
      - type: Progressive
        name: Income
        brackets:
          - threshold: 0
            ratePercent: 10
          - threshold: "10000"
            ratePercent: "20"
  - countryCode: ZZ
    taxItems: []
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	de := rules[0]
	assert.Equal(t, "de", de.CountryCode)
	require.Len(t, de.TaxItems, 2)
	require.NotNil(t, de.TaxItems[0].Amount)
	assert.True(t, decimal.NewFromInt(100).Equal(*de.TaxItems[0].Amount))
	assert.Nil(t, de.TaxItems[0].RatePercent)
	assert.True(t, decimal.NewFromInt(5).Equal(*de.TaxItems[1].RatePercent))

	income := rules[1].TaxItems[1]
	require.Len(t, income.Brackets, 2)
	assert.True(t, decimal.NewFromInt(10000).Equal(income.Brackets[1].Threshold))
}

func TestParseRules_BadDecimal(t *testing.T) {
	_, err := ParseRules([]byte(`
rules:
  - countryCode: DE
    taxItems:
      - type: Fixed
        name: Fee
        amount: lots
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `item "Fee" amount`)
}

func TestParseRules_BadYAML(t *testing.T) {
	_, err := ParseRules([]byte("rules: [unterminated"))
	assert.Error(t, err)
}

func TestLoadRules_MissingFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadRules_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, rules, 3)
}

func TestApply_SkipsInvalidRules(t *testing.T) {
	rules, err := ParseRules([]byte(seedYAML))
	require.NoError(t, err)

	svc := service.NewTaxService(repository.NewMemoryTaxRuleRepository(), nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	applied := Apply(ctx, svc, rules, zap.NewNop())
	assert.Equal(t, 2, applied)

	res, err := svc.CalculateTax(ctx, service.CalculateTaxRequest{CountryCode: "XY", GrossSalary: decimal.NewFromInt(15000)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12920).Equal(res.NetSalary))

	_, err = svc.GetTaxRule(ctx, "ZZ")
	assert.ErrorIs(t, err, service.ErrCountryNotConfigured)
}

func TestBundledRulesFileIsValid(t *testing.T) {
	rules, err := LoadRules(filepath.Join("..", "..", "configs", "rules.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	svc := service.NewTaxService(repository.NewMemoryTaxRuleRepository(), nil, nil, nil, nil)
	assert.Equal(t, len(rules), Apply(context.Background(), svc, rules, nil))
}
