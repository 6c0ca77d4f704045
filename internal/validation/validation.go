// Package validation holds the pure sanitization and validation rules applied
// to registration input before it reaches the user directory. It has no
// dependency on stored state.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// Input carries raw or sanitized registration fields. Pointer fields
// distinguish "not provided" from "provided but empty".
type Input struct {
	Name         *string
	Email        *string
	ReferralCode *string
}

// Limits bounds field lengths. Zero values are never valid; use
// DefaultLimits or derive from configuration.
type Limits struct {
	MinNameLength  int
	MaxNameLength  int
	MinEmailLength int
	MaxEmailLength int
	CodeLength     int
}

// DefaultLimits returns the standard field bounds.
func DefaultLimits() Limits {
	return Limits{
		MinNameLength:  2,
		MaxNameLength:  50,
		MinEmailLength: 5,
		MaxEmailLength: 100,
		CodeLength:     6,
	}
}

// Result reports the outcome of Validate. Errors preserves rule order:
// name rules first, then email, then referral code.
type Result struct {
	Valid  bool
	Errors []string
}

// Sanitize normalizes the provided fields: whitespace is trimmed, email is
// lower-cased and referral code upper-cased. Fields that are absent or empty
// before trimming are dropped (nil) so Validate can report them as missing
// rather than malformed. A field that trims down to an empty string stays
// present, carrying the empty value.
func Sanitize(in Input) Input {
	var out Input
	if in.Name != nil && *in.Name != "" {
		name := strings.TrimSpace(*in.Name)
		out.Name = &name
	}
	if in.Email != nil && *in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		out.Email = &email
	}
	if in.ReferralCode != nil && *in.ReferralCode != "" {
		code := strings.ToUpper(strings.TrimSpace(*in.ReferralCode))
		out.ReferralCode = &code
	}
	return out
}

// Validate checks sanitized input against the given limits. All applicable
// rule violations are accumulated rather than short-circuited, with one
// exception: a field that is present but empty yields only its "cannot be
// empty" message, suppressing the length and format rules for that field.
func Validate(in Input, limits Limits) Result {
	var errs []string

	switch {
	case in.Name == nil:
		errs = append(errs, "Name is required")
	case *in.Name == "":
		errs = append(errs, "Name cannot be empty")
	default:
		length := utf8.RuneCountInString(*in.Name)
		if length < limits.MinNameLength {
			errs = append(errs, fmt.Sprintf("Name must be at least %d characters long", limits.MinNameLength))
		}
		if length > limits.MaxNameLength {
			errs = append(errs, fmt.Sprintf("Name must be at most %d characters long", limits.MaxNameLength))
		}
	}

	switch {
	case in.Email == nil:
		errs = append(errs, "Email is required")
	case *in.Email == "":
		errs = append(errs, "Email cannot be empty")
	default:
		length := utf8.RuneCountInString(*in.Email)
		if length < limits.MinEmailLength {
			errs = append(errs, fmt.Sprintf("Email must be at least %d characters long", limits.MinEmailLength))
		}
		if length > limits.MaxEmailLength {
			errs = append(errs, fmt.Sprintf("Email must be at most %d characters long", limits.MaxEmailLength))
		}
		if !emailPattern.MatchString(*in.Email) {
			errs = append(errs, "Email format is invalid")
		}
	}

	if in.ReferralCode != nil {
		if *in.ReferralCode == "" {
			errs = append(errs, "Referral code cannot be empty")
		} else {
			if utf8.RuneCountInString(*in.ReferralCode) != limits.CodeLength {
				errs = append(errs, fmt.Sprintf("Referral code must be exactly %d characters", limits.CodeLength))
			}
			if !codePattern.MatchString(*in.ReferralCode) {
				errs = append(errs, "Referral code must contain only uppercase letters and numbers")
			}
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
