package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taxcal/internal/metrics"
	"taxcal/internal/model"
	"taxcal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type ProgressiveBracketRequest struct {
	Threshold   decimal.Decimal `json:"threshold" swaggertype:"string" example:"10000"`
	RatePercent decimal.Decimal `json:"ratePercent" swaggertype:"string" example:"20"`
}

type TaxItemRequest struct {
	Type        string                      `json:"type" example:"FlatRate"`
	Name        string                      `json:"name" example:"Solidarity"`
	Amount      *decimal.Decimal            `json:"amount,omitempty" swaggertype:"string" example:"100"`
	RatePercent *decimal.Decimal            `json:"ratePercent,omitempty" swaggertype:"string" example:"5"`
	Brackets    []ProgressiveBracketRequest `json:"brackets,omitempty"`
}

type ConfigureTaxRuleRequest struct {
	CountryCode string           `json:"countryCode" example:"DE"`
	TaxItems    []TaxItemRequest `json:"taxItems"`
}

type CalculateTaxRequest struct {
	CountryCode string          `json:"countryCode" example:"DE"`
	GrossSalary decimal.Decimal `json:"grossSalary" swaggertype:"string" example:"60000"`
}

type ProgressiveBracketResponse struct {
	Threshold   decimal.Decimal `json:"threshold" swaggertype:"string"`
	RatePercent decimal.Decimal `json:"ratePercent" swaggertype:"string"`
}

type TaxItemResponse struct {
	Type        string                       `json:"type"`
	Name        string                       `json:"name"`
	Amount      *decimal.Decimal             `json:"amount,omitempty" swaggertype:"string"`
	RatePercent *decimal.Decimal             `json:"ratePercent,omitempty" swaggertype:"string"`
	Brackets    []ProgressiveBracketResponse `json:"brackets,omitempty"`
}

type TaxRuleResponse struct {
	CountryCode string            `json:"countryCode"`
	TaxItems    []TaxItemResponse `json:"taxItems"`
}

type BreakdownResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

type CalculationResponse struct {
	Gross       decimal.Decimal     `json:"gross" swaggertype:"string"`
	TaxableBase decimal.Decimal     `json:"taxableBase" swaggertype:"string"`
	TotalTaxes  decimal.Decimal     `json:"totalTaxes" swaggertype:"string"`
	Breakdown   []BreakdownResponse `json:"breakdown"`
	NetSalary   decimal.Decimal     `json:"netSalary" swaggertype:"string"`
}

// TaxRuleConfiguredEvent is pushed to websocket subscribers after a rule is stored
type TaxRuleConfiguredEvent struct {
	Event       string    `json:"event"`
	CountryCode string    `json:"countryCode"`
	ItemCount   int       `json:"itemCount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

const EventTaxRuleConfigured = "tax_rule.configured"

// EventPublisher must not block the caller
type EventPublisher interface {
	Publish(v any)
}

// --- Interface ---

type TaxService interface {
	ConfigureTaxRule(ctx context.Context, req ConfigureTaxRuleRequest) (TaxRuleResponse, error)
	CalculateTax(ctx context.Context, req CalculateTaxRequest) (CalculationResponse, error)
	GetTaxRule(ctx context.Context, countryCode string) (TaxRuleResponse, error)
	ListTaxRules(ctx context.Context) ([]TaxRuleResponse, error)
}

type taxService struct {
	rules     repository.TaxRuleRepository
	audits    repository.AuditRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewTaxService wires the rule store with its side channels. audits, publisher
// and m may be nil.
func NewTaxService(rules repository.TaxRuleRepository, audits repository.AuditRepository, publisher EventPublisher, m *metrics.Metrics, log *zap.Logger) TaxService {
	if log == nil {
		log = zap.NewNop()
	}
	return &taxService{
		rules:     rules,
		audits:    audits,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// --- Implementation ---

func (s *taxService) ConfigureTaxRule(ctx context.Context, req ConfigureTaxRuleRequest) (TaxRuleResponse, error) {
	if err := ValidateCountryCode(req.CountryCode); err != nil {
		s.metrics.ObserveRuleConfiguration(metrics.OutcomeRejected)
		return TaxRuleResponse{}, err
	}
	countryCode := model.NormalizeCountryCode(req.CountryCode)

	rule, err := toCountryTaxRule(countryCode, req.TaxItems)
	if err != nil {
		s.metrics.ObserveRuleConfiguration(metrics.OutcomeRejected)
		return TaxRuleResponse{}, err
	}

	if err := ValidateTaxRule(rule); err != nil {
		s.metrics.ObserveRuleConfiguration(metrics.OutcomeRejected)
		s.log.Info("tax rule rejected", zap.String("country_code", countryCode), zap.Error(err))
		return TaxRuleResponse{}, err
	}

	if err := s.rules.SaveOrReplace(ctx, countryCode, rule); err != nil {
		return TaxRuleResponse{}, fmt.Errorf("failed to save tax rule: %w", err)
	}
	s.metrics.ObserveRuleConfiguration(metrics.OutcomeAccepted)
	s.log.Info("tax rule configured",
		zap.String("country_code", countryCode),
		zap.Int("item_count", len(rule.TaxItems)),
	)

	s.writeAuditLog(ctx, model.ActionConfigureTaxRule, countryCode,
		fmt.Sprintf("%s (%d items)", countryCode, len(rule.TaxItems)), req)

	if s.publisher != nil {
		s.publisher.Publish(TaxRuleConfiguredEvent{
			Event:       EventTaxRuleConfigured,
			CountryCode: countryCode,
			ItemCount:   len(rule.TaxItems),
			OccurredAt:  s.now().UTC(),
		})
	}

	return toTaxRuleResponse(rule), nil
}

func (s *taxService) CalculateTax(ctx context.Context, req CalculateTaxRequest) (CalculationResponse, error) {
	if err := ValidateCountryCode(req.CountryCode); err != nil {
		s.metrics.ObserveCalculation(metrics.OutcomeValidationError)
		return CalculationResponse{}, err
	}
	countryCode := model.NormalizeCountryCode(req.CountryCode)

	rule, err := s.findRule(ctx, countryCode)
	if err != nil {
		if errors.Is(err, ErrCountryNotConfigured) {
			s.metrics.ObserveCalculation(metrics.OutcomeNotConfigured)
		} else {
			s.metrics.ObserveCalculation(metrics.OutcomeError)
		}
		return CalculationResponse{}, err
	}

	result, err := CalculateTax(req.GrossSalary, *rule)
	if err != nil {
		s.metrics.ObserveCalculation(metrics.OutcomeValidationError)
		return CalculationResponse{}, err
	}
	s.metrics.ObserveCalculation(metrics.OutcomeSuccess)

	return toCalculationResponse(result), nil
}

func (s *taxService) GetTaxRule(ctx context.Context, countryCode string) (TaxRuleResponse, error) {
	if err := ValidateCountryCode(countryCode); err != nil {
		return TaxRuleResponse{}, err
	}

	rule, err := s.findRule(ctx, model.NormalizeCountryCode(countryCode))
	if err != nil {
		return TaxRuleResponse{}, err
	}
	return toTaxRuleResponse(*rule), nil
}

func (s *taxService) ListTaxRules(ctx context.Context) ([]TaxRuleResponse, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rules: %w", err)
	}

	res := make([]TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toTaxRuleResponse(r))
	}
	return res, nil
}

// --- Helpers ---

func (s *taxService) findRule(ctx context.Context, countryCode string) (*model.CountryTaxRule, error) {
	rule, err := s.rules.FindByCountryCode(ctx, countryCode)
	if err != nil {
		if errors.Is(err, repository.ErrTaxRuleNotFound) {
			return nil, &NotConfiguredError{CountryCode: countryCode}
		}
		return nil, fmt.Errorf("failed to fetch tax rule: %w", err)
	}
	return rule, nil
}

func toCountryTaxRule(countryCode string, items []TaxItemRequest) (model.CountryTaxRule, error) {
	rule := model.CountryTaxRule{
		CountryCode: countryCode,
		TaxItems:    make([]model.TaxItem, 0, len(items)),
	}

	for i, item := range items {
		kind, ok := model.ParseTaxItemKind(item.Type)
		if !ok {
			reason := "has no type (use Fixed, FlatRate, or Progressive)"
			if item.Type != "" {
				reason = fmt.Sprintf("has invalid type %q (use Fixed, FlatRate, or Progressive)", item.Type)
			}
			return model.CountryTaxRule{}, &InvalidItemError{Index: i, Name: item.Name, Reason: reason}
		}

		switch kind {
		case model.TaxItemKindFixed:
			rule.TaxItems = append(rule.TaxItems, model.NewFixedTax(item.Name, item.Amount))
		case model.TaxItemKindFlatRate:
			rule.TaxItems = append(rule.TaxItems, model.NewFlatRateTax(item.Name, item.RatePercent))
		case model.TaxItemKindProgressive:
			brackets := make([]model.ProgressiveBracket, 0, len(item.Brackets))
			for _, b := range item.Brackets {
				brackets = append(brackets, model.ProgressiveBracket{Threshold: b.Threshold, RatePercent: b.RatePercent})
			}
			rule.TaxItems = append(rule.TaxItems, model.NewProgressiveTax(item.Name, brackets))
		}
	}

	return rule, nil
}

func toTaxRuleResponse(r model.CountryTaxRule) TaxRuleResponse {
	resp := TaxRuleResponse{
		CountryCode: r.CountryCode,
		TaxItems:    make([]TaxItemResponse, 0, len(r.TaxItems)),
	}

	for _, item := range r.TaxItems {
		out := TaxItemResponse{Type: string(item.Kind()), Name: item.Name}
		switch p := item.Params.(type) {
		case model.FixedTax:
			out.Amount = p.Amount
		case model.FlatRateTax:
			out.RatePercent = p.RatePercent
		case model.ProgressiveTax:
			out.Brackets = make([]ProgressiveBracketResponse, 0, len(p.Brackets))
			for _, b := range p.Brackets {
				out.Brackets = append(out.Brackets, ProgressiveBracketResponse{Threshold: b.Threshold, RatePercent: b.RatePercent})
			}
		}
		resp.TaxItems = append(resp.TaxItems, out)
	}
	return resp
}

func toCalculationResponse(r model.TaxCalculationResult) CalculationResponse {
	breakdown := make([]BreakdownResponse, 0, len(r.Breakdown))
	for _, entry := range r.Breakdown {
		breakdown = append(breakdown, BreakdownResponse{Name: entry.Name, Amount: entry.Amount})
	}

	return CalculationResponse{
		Gross:       r.Gross,
		TaxableBase: r.TaxableBase,
		TotalTaxes:  r.TotalTaxes,
		Breakdown:   breakdown,
		NetSalary:   r.NetSalary,
	}
}

func (s *taxService) writeAuditLog(ctx context.Context, action, entityID, entityName string, details interface{}) {
	if s.audits == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	// Best-effort audit log; don't fail the operation if logging fails
	if err := s.audits.Log(ctx, &entry); err != nil {
		s.log.Warn("audit log write failed",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}
