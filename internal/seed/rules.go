package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"taxcal/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the layout of a rules seed file
type File struct {
	Rules []Rule `yaml:"rules"`
}

type Rule struct {
	CountryCode string `yaml:"countryCode"`
	TaxItems    []Item `yaml:"taxItems"`
}

// Item keeps decimals as raw scalars so both 5 and "5" are accepted
type Item struct {
	Type        string    `yaml:"type"`
	Name        string    `yaml:"name"`
	Amount      *string   `yaml:"amount"`
	RatePercent *string   `yaml:"ratePercent"`
	Brackets    []Bracket `yaml:"brackets"`
}

type Bracket struct {
	Threshold   string `yaml:"threshold"`
	RatePercent string `yaml:"ratePercent"`
}

// LoadRules reads the seed file at path. A missing file yields no rules and no error.
func LoadRules(path string) ([]service.ConfigureTaxRuleRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules decodes seed YAML into configuration requests
func ParseRules(data []byte) ([]service.ConfigureTaxRuleRequest, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	out := make([]service.ConfigureTaxRuleRequest, 0, len(file.Rules))
	for i, rule := range file.Rules {
		req, err := rule.toRequest()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.CountryCode, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func (r Rule) toRequest() (service.ConfigureTaxRuleRequest, error) {
	req := service.ConfigureTaxRuleRequest{
		CountryCode: r.CountryCode,
		TaxItems:    make([]service.TaxItemRequest, 0, len(r.TaxItems)),
	}

	for _, item := range r.TaxItems {
		amount, err := optionalDecimal(item.Amount)
		if err != nil {
			return req, fmt.Errorf("item %q amount: %w", item.Name, err)
		}
		rate, err := optionalDecimal(item.RatePercent)
		if err != nil {
			return req, fmt.Errorf("item %q ratePercent: %w", item.Name, err)
		}

		var brackets []service.ProgressiveBracketRequest
		for _, b := range item.Brackets {
			threshold, err := decimal.NewFromString(b.Threshold)
			if err != nil {
				return req, fmt.Errorf("item %q bracket threshold: %w", item.Name, err)
			}
			bracketRate, err := decimal.NewFromString(b.RatePercent)
			if err != nil {
				return req, fmt.Errorf("item %q bracket ratePercent: %w", item.Name, err)
			}
			brackets = append(brackets, service.ProgressiveBracketRequest{Threshold: threshold, RatePercent: bracketRate})
		}

		req.TaxItems = append(req.TaxItems, service.TaxItemRequest{
			Type:        item.Type,
			Name:        item.Name,
			Amount:      amount,
			RatePercent: rate,
			Brackets:    brackets,
		})
	}
	return req, nil
}

func optionalDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Apply configures each rule through svc so seeded rules pass the same
// validation as API requests. Failing rules are logged and skipped; the
// number of accepted rules is returned.
func Apply(ctx context.Context, svc service.TaxService, rules []service.ConfigureTaxRuleRequest, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}

	applied := 0
	for _, req := range rules {
		if _, err := svc.ConfigureTaxRule(ctx, req); err != nil {
			log.Warn("skipping seed tax rule",
				zap.String("country_code", req.CountryCode),
				zap.Error(err),
			)
			continue
		}
		applied++
	}
	return applied
}
