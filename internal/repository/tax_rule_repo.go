package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"taxcal/internal/model"
)

var (
	ErrTaxRuleNotFound     = errors.New("tax rule not found")
	ErrCountryCodeMismatch = errors.New("country code does not match rule country code")
)

// TaxRuleRepository holds one rule per country; country codes match case-insensitively
type TaxRuleRepository interface {
	FindByCountryCode(ctx context.Context, countryCode string) (*model.CountryTaxRule, error)
	SaveOrReplace(ctx context.Context, countryCode string, rule model.CountryTaxRule) error
	List(ctx context.Context) ([]model.CountryTaxRule, error)
}

// memoryTaxRuleRepository is process-scoped; rules are lost on restart
type memoryTaxRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]model.CountryTaxRule
}

func NewMemoryTaxRuleRepository() TaxRuleRepository {
	return &memoryTaxRuleRepository{rules: make(map[string]model.CountryTaxRule)}
}

func (r *memoryTaxRuleRepository) FindByCountryCode(ctx context.Context, countryCode string) (*model.CountryTaxRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	rule, ok := r.rules[model.NormalizeCountryCode(countryCode)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrTaxRuleNotFound
	}

	clone := rule.Clone()
	return &clone, nil
}

func (r *memoryTaxRuleRepository) SaveOrReplace(ctx context.Context, countryCode string, rule model.CountryTaxRule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := model.NormalizeCountryCode(countryCode)
	if key != model.NormalizeCountryCode(rule.CountryCode) {
		return fmt.Errorf("%w: '%s' vs '%s'", ErrCountryCodeMismatch, countryCode, rule.CountryCode)
	}

	// Clone before taking the lock so readers only ever see a complete rule.
	stored := rule.Clone()
	stored.CountryCode = key

	r.mu.Lock()
	r.rules[key] = stored
	r.mu.Unlock()
	return nil
}

func (r *memoryTaxRuleRepository) List(ctx context.Context) ([]model.CountryTaxRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	rules := make([]model.CountryTaxRule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].CountryCode < rules[j].CountryCode
	})
	return rules, nil
}
