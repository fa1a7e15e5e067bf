package service

import "strings"

// ValidateCountryCode accepts exactly two ASCII letters (either case) after trimming
func ValidateCountryCode(raw string) error {
	code := strings.TrimSpace(raw)
	if code == "" {
		return ErrCountryCodeRequired
	}
	if len(code) != 2 {
		return ErrInvalidCountryCode
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return ErrInvalidCountryCode
		}
	}
	return nil
}
