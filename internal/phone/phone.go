// Package phone normalizes user-entered phone numbers to E.164.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/dtroode/roundrobin/internal/model"
)

// Mode selects how strictly a parsed number is checked.
type Mode string

const (
	// ModeStrict requires the number to match a known numbering plan range.
	ModeStrict Mode = "strict"
	// ModeLenient only requires a possible length for the country.
	ModeLenient Mode = "lenient"
)

// ParseMode converts a configuration value to a Mode. An empty value selects
// ModeLenient.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLenient, "":
		return ModeLenient, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown phone validation mode %q", s)
	}
}

// Normalizer converts raw input into canonical E.164 numbers.
type Normalizer struct {
	defaultRegion string
	mode          Mode
}

// NewNormalizer creates a Normalizer using defaultRegion when Normalize is
// called without a region. An empty mode means ModeLenient.
func NewNormalizer(defaultRegion string, mode Mode) *Normalizer {
	if mode == "" {
		mode = ModeLenient
	}
	return &Normalizer{
		defaultRegion: strings.ToUpper(defaultRegion),
		mode:          mode,
	}
}

// DefaultRegion returns the region used when none is given.
func (n *Normalizer) DefaultRegion() string {
	return n.defaultRegion
}

// Normalize parses input for region and returns it in E.164 form.
// Errors wrap model.ErrValidation.
func (n *Normalizer) Normalize(input, region string) (string, error) {
	if region == "" {
		region = n.defaultRegion
	}
	region = strings.ToUpper(strings.TrimSpace(region))
	if !phonenumbers.GetSupportedRegions()[region] {
		return "", fmt.Errorf("%w: unknown region %q", model.ErrValidation, region)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: phone number is required", model.ErrValidation)
	}

	num, err := phonenumbers.Parse(input, region)
	if err != nil {
		return "", fmt.Errorf("%w: cannot parse phone number %q: %v", model.ErrValidation, input, err)
	}

	var ok bool
	switch n.mode {
	case ModeLenient:
		ok = phonenumbers.IsPossibleNumber(num)
	default:
		ok = phonenumbers.IsValidNumber(num)
	}
	if !ok {
		return "", fmt.Errorf("%w: %q is not a valid phone number for region %s", model.ErrValidation, input, region)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Display formats a stored E.164 number for people to read.
// Numbers that fail to parse are returned unchanged.
func Display(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return e164
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}
