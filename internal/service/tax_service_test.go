package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"taxcal/internal/metrics"
	"taxcal/internal/model"
	"taxcal/internal/repository"
	"taxcal/pkg/pagination"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type spyRuleRepo struct {
	repository.TaxRuleRepository
	saves int
	err   error
}

func (r *spyRuleRepo) SaveOrReplace(ctx context.Context, countryCode string, rule model.CountryTaxRule) error {
	r.saves++
	if r.err != nil {
		return r.err
	}
	return r.TaxRuleRepository.SaveOrReplace(ctx, countryCode, rule)
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
	err     error
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ pagination.Params) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, int64(len(r.entries)), nil
}

type recordingPublisher struct {
	events []any
}

func (p *recordingPublisher) Publish(v any) {
	p.events = append(p.events, v)
}

type serviceFixture struct {
	svc       TaxService
	repo      *spyRuleRepo
	audits    *fakeAuditRepo
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	f := serviceFixture{
		repo:      &spyRuleRepo{TaxRuleRepository: repository.NewMemoryTaxRuleRepository()},
		audits:    &fakeAuditRepo{},
		publisher: &recordingPublisher{},
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	svc := NewTaxService(f.repo, f.audits, f.publisher, f.metrics, zap.NewNop()).(*taxService)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	f.svc = svc
	return f
}

func germanyRequest() ConfigureTaxRuleRequest {
	return ConfigureTaxRuleRequest{
		CountryCode: "de",
		TaxItems: []TaxItemRequest{
			{Type: "Fixed", Name: "CommunityTax", Amount: decPtr("100")},
			{Type: "flatrate", Name: "RadioTax", RatePercent: decPtr("5")},
		},
	}
}

func TestTaxService_ConfigureThenCalculate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	rule, err := f.svc.ConfigureTaxRule(ctx, germanyRequest())
	require.NoError(t, err)
	assert.Equal(t, "DE", rule.CountryCode)
	require.Len(t, rule.TaxItems, 2)
	assert.Equal(t, "Fixed", rule.TaxItems[0].Type)
	assert.Equal(t, "FlatRate", rule.TaxItems[1].Type)

	res, err := f.svc.CalculateTax(ctx, CalculateTaxRequest{CountryCode: "De", GrossSalary: dec("60000")})
	require.NoError(t, err)
	assertDecimal(t, "59900", res.TaxableBase)
	assertDecimal(t, "3095", res.TotalTaxes)
	assertDecimal(t, "56905", res.NetSalary)
	require.Len(t, res.Breakdown, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CalculationCounter(metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RuleConfigurationCounter(metrics.OutcomeAccepted)))
}

func TestTaxService_ConfigureWritesAuditAndPublishes(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ConfigureTaxRule(context.Background(), germanyRequest())
	require.NoError(t, err)

	require.Len(t, f.audits.entries, 1)
	entry := f.audits.entries[0]
	assert.Equal(t, model.ActionConfigureTaxRule, entry.Action)
	assert.Equal(t, "DE", entry.EntityID)
	assert.Equal(t, "DE (2 items)", entry.EntityName)

	var details ConfigureTaxRuleRequest
	require.NoError(t, json.Unmarshal([]byte(entry.Details), &details))
	assert.Len(t, details.TaxItems, 2)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, TaxRuleConfiguredEvent{
		Event:       EventTaxRuleConfigured,
		CountryCode: "DE",
		ItemCount:   2,
		OccurredAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, f.publisher.events[0])
}

func TestTaxService_AuditFailureDoesNotFailConfigure(t *testing.T) {
	f := newServiceFixture(t)
	f.audits.err = errors.New("disk full")

	_, err := f.svc.ConfigureTaxRule(context.Background(), germanyRequest())
	require.NoError(t, err)

	_, err = f.svc.GetTaxRule(context.Background(), "DE")
	assert.NoError(t, err)
}

func TestTaxService_InvalidRuleIsNeverSaved(t *testing.T) {
	cases := []struct {
		name string
		req  ConfigureTaxRuleRequest
		want error
	}{
		{
			name: "empty",
			req:  ConfigureTaxRuleRequest{CountryCode: "DE"},
			want: ErrEmptyRule,
		},
		{
			name: "two progressive",
			req: ConfigureTaxRuleRequest{CountryCode: "DE", TaxItems: []TaxItemRequest{
				{Type: "Progressive", Brackets: []ProgressiveBracketRequest{{Threshold: dec("0"), RatePercent: dec("10")}}},
				{Type: "Progressive", Brackets: []ProgressiveBracketRequest{{Threshold: dec("0"), RatePercent: dec("20")}}},
			}},
			want: ErrTooManyProgressive,
		},
		{
			name: "bad params",
			req: ConfigureTaxRuleRequest{CountryCode: "DE", TaxItems: []TaxItemRequest{
				{Type: "FlatRate", Name: "Flat", RatePercent: decPtr("150")},
			}},
			want: ErrInvalidItemParameters,
		},
		{
			name: "unknown type",
			req: ConfigureTaxRuleRequest{CountryCode: "DE", TaxItems: []TaxItemRequest{
				{Type: "Lottery", Name: "Luck"},
			}},
			want: ErrInvalidItemParameters,
		},
		{
			name: "missing country",
			req:  ConfigureTaxRuleRequest{CountryCode: " ", TaxItems: germanyRequest().TaxItems},
			want: ErrCountryCodeRequired,
		},
		{
			name: "malformed country",
			req:  ConfigureTaxRuleRequest{CountryCode: "DEU", TaxItems: germanyRequest().TaxItems},
			want: ErrInvalidCountryCode,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(t)

			_, err := f.svc.ConfigureTaxRule(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, IsValidationError(err))
			assert.Zero(t, f.repo.saves)
			assert.Empty(t, f.audits.entries)
			assert.Empty(t, f.publisher.events)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RuleConfigurationCounter(metrics.OutcomeRejected)))
		})
	}
}

func TestTaxService_UnknownTypeMessage(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ConfigureTaxRule(context.Background(), ConfigureTaxRuleRequest{
		CountryCode: "DE",
		TaxItems: []TaxItemRequest{
			{Type: "Fixed", Amount: decPtr("1")},
			{Type: "Lottery"},
			{},
		},
	})
	assert.EqualError(t, err, `tax item at index 1 has invalid type "Lottery" (use Fixed, FlatRate, or Progressive)`)
}

func TestTaxService_ReplaceKeepsLatestRule(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.ConfigureTaxRule(ctx, germanyRequest())
	require.NoError(t, err)
	_, err = f.svc.ConfigureTaxRule(ctx, ConfigureTaxRuleRequest{
		CountryCode: "DE",
		TaxItems:    []TaxItemRequest{{Type: "FlatRate", Name: "Only", RatePercent: decPtr("10")}},
	})
	require.NoError(t, err)

	rule, err := f.svc.GetTaxRule(ctx, "de")
	require.NoError(t, err)
	require.Len(t, rule.TaxItems, 1)
	assert.Equal(t, "Only", rule.TaxItems[0].Name)

	rules, err := f.svc.ListTaxRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestTaxService_CalculateUnconfiguredCountry(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CalculateTax(context.Background(), CalculateTaxRequest{CountryCode: "xx", GrossSalary: dec("1000")})
	require.ErrorIs(t, err, ErrCountryNotConfigured)
	assert.False(t, IsValidationError(err))
	assert.EqualError(t, err, "no tax configuration for country XX")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CalculationCounter(metrics.OutcomeNotConfigured)))
}

func TestTaxService_CalculateNegativeGross(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	_, err := f.svc.ConfigureTaxRule(ctx, germanyRequest())
	require.NoError(t, err)

	_, err = f.svc.CalculateTax(ctx, CalculateTaxRequest{CountryCode: "DE", GrossSalary: dec("-5")})
	require.ErrorIs(t, err, ErrNegativeGross)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CalculationCounter(metrics.OutcomeValidationError)))
}

func TestTaxService_CalculateInvalidCountryCode(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CalculateTax(context.Background(), CalculateTaxRequest{CountryCode: "D", GrossSalary: dec("1")})
	assert.ErrorIs(t, err, ErrInvalidCountryCode)
}

func TestTaxService_StoreFailureIsInternal(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.err = errors.New("boom")

	_, err := f.svc.ConfigureTaxRule(context.Background(), germanyRequest())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.False(t, errors.Is(err, ErrCountryNotConfigured))
	assert.Empty(t, f.audits.entries)
}

func TestTaxService_ProgressiveRoundTrip(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.ConfigureTaxRule(ctx, ConfigureTaxRuleRequest{
		CountryCode: "XY",
		TaxItems: []TaxItemRequest{
			{Type: "Fixed", Name: "Fee", Amount: decPtr("100")},
			{Type: "PROGRESSIVE", Name: "Income", Brackets: []ProgressiveBracketRequest{
				{Threshold: dec("10000"), RatePercent: dec("20")},
				{Threshold: dec("0"), RatePercent: dec("10")},
			}},
		},
	})
	require.NoError(t, err)

	res, err := f.svc.CalculateTax(ctx, CalculateTaxRequest{CountryCode: "XY", GrossSalary: dec("15000")})
	require.NoError(t, err)
	assertDecimal(t, "14900", res.TaxableBase)
	assertDecimal(t, "2080", res.TotalTaxes)
	assertDecimal(t, "12920", res.NetSalary)
	assert.Equal(t, "Income", res.Breakdown[1].Name)
	assertDecimal(t, "1980", res.Breakdown[1].Amount)

	rule, err := f.svc.GetTaxRule(ctx, "XY")
	require.NoError(t, err)
	require.Len(t, rule.TaxItems[1].Brackets, 2)
	// stored in the order given
	assertDecimal(t, "10000", rule.TaxItems[1].Brackets[0].Threshold)
}

func TestTaxService_NilCollaborators(t *testing.T) {
	svc := NewTaxService(repository.NewMemoryTaxRuleRepository(), nil, nil, nil, nil)

	_, err := svc.ConfigureTaxRule(context.Background(), germanyRequest())
	require.NoError(t, err)
	_, err = svc.CalculateTax(context.Background(), CalculateTaxRequest{CountryCode: "DE", GrossSalary: dec("100")})
	assert.NoError(t, err)
}
