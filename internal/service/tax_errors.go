package service

import (
	"errors"
	"fmt"

	"taxcal/internal/model"
)

var (
	ErrNegativeGross         = errors.New("gross salary must be non-negative")
	ErrEmptyRule             = errors.New("at least one tax item is required")
	ErrTooManyProgressive    = errors.New("at most one progressive tax item is allowed per country")
	ErrInvalidItemParameters = errors.New("invalid tax item parameters")
	ErrCountryCodeRequired   = errors.New("country code is required")
	ErrInvalidCountryCode    = errors.New("country code must be two letters (e.g. DE, ES)")
	ErrCountryNotConfigured  = errors.New("country not configured")
)

// InvalidItemError reports the first tax item that failed validation
type InvalidItemError struct {
	Index  int
	Name   string
	Kind   model.TaxItemKind
	Reason string
}

func (e *InvalidItemError) Error() string {
	label := kindLabel(e.Kind)
	if label == "" {
		return fmt.Sprintf("tax item at index %d %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("%s tax item '%s' %s", label, e.Name, e.Reason)
}

func (e *InvalidItemError) Is(target error) bool {
	return target == ErrInvalidItemParameters
}

// NotConfiguredError carries the country that has no rule
type NotConfiguredError struct {
	CountryCode string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("no tax configuration for country %s", e.CountryCode)
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrCountryNotConfigured
}

// IsValidationError reports whether err is a client-side input problem (HTTP 400)
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNegativeGross) ||
		errors.Is(err, ErrEmptyRule) ||
		errors.Is(err, ErrTooManyProgressive) ||
		errors.Is(err, ErrInvalidItemParameters) ||
		errors.Is(err, ErrCountryCodeRequired) ||
		errors.Is(err, ErrInvalidCountryCode)
}

func kindLabel(kind model.TaxItemKind) string {
	switch kind {
	case model.TaxItemKindFixed:
		return "fixed"
	case model.TaxItemKindFlatRate:
		return "flat-rate"
	case model.TaxItemKindProgressive:
		return "progressive"
	}
	return ""
}
