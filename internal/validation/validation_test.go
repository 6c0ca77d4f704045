package validation

import (
	"strings"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestSanitizeNormalizesFields(t *testing.T) {
	out := Sanitize(Input{
		Name:         strPtr("  John Doe  "),
		Email:        strPtr(" John@Example.COM "),
		ReferralCode: strPtr(" abc123 "),
	})

	if out.Name == nil || *out.Name != "John Doe" {
		t.Fatalf("expected trimmed name, got %v", out.Name)
	}
	if out.Email == nil || *out.Email != "john@example.com" {
		t.Fatalf("expected lower-cased email, got %v", out.Email)
	}
	if out.ReferralCode == nil || *out.ReferralCode != "ABC123" {
		t.Fatalf("expected upper-cased code, got %v", out.ReferralCode)
	}
}

func TestSanitizeDropsAbsentAndEmptyFields(t *testing.T) {
	out := Sanitize(Input{Name: strPtr(""), Email: nil})

	if out.Name != nil {
		t.Fatalf("expected empty name dropped, got %q", *out.Name)
	}
	if out.Email != nil {
		t.Fatalf("expected absent email to stay absent")
	}
	if out.ReferralCode != nil {
		t.Fatalf("expected absent code to stay absent")
	}
}

func TestSanitizeKeepsWhitespaceOnlyFieldPresent(t *testing.T) {
	out := Sanitize(Input{Name: strPtr("   ")})

	if out.Name == nil {
		t.Fatal("whitespace-only name should stay present")
	}
	if *out.Name != "" {
		t.Fatalf("expected empty string after trim, got %q", *out.Name)
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	res := Validate(Input{Name: strPtr(""), Email: strPtr("bad")}, DefaultLimits())

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	joined := strings.Join(res.Errors, ", ")
	if !strings.Contains(joined, "Name cannot be empty") {
		t.Errorf("missing name-empty message in %q", joined)
	}
	if !strings.Contains(joined, "Email format is invalid") {
		t.Errorf("missing email-format message in %q", joined)
	}
	if !strings.Contains(joined, "Email must be at least 5 characters long") {
		t.Errorf("missing email-length message in %q", joined)
	}
}

func TestValidateErrorOrder(t *testing.T) {
	res := Validate(Input{Email: strPtr("bad"), ReferralCode: strPtr("AB")}, DefaultLimits())

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	want := []string{
		"Name is required",
		"Email must be at least 5 characters long",
		"Email format is invalid",
		"Referral code must be exactly 6 characters",
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), res.Errors)
	}
	for i, msg := range want {
		if res.Errors[i] != msg {
			t.Errorf("error %d: want %q, got %q", i, msg, res.Errors[i])
		}
	}
}

func TestValidateNameBounds(t *testing.T) {
	limits := DefaultLimits()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"too short", "A", "Name must be at least 2 characters long"},
		{"min ok", "Al", ""},
		{"max ok", strings.Repeat("a", 50), ""},
		{"too long", strings.Repeat("a", 51), "Name must be at most 50 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(Input{Name: strPtr(tc.value), Email: strPtr("a@b.co")}, limits)
			joined := strings.Join(res.Errors, ", ")
			if tc.want == "" {
				if !res.Valid {
					t.Fatalf("expected valid, got errors %q", joined)
				}
				return
			}
			if res.Valid || !strings.Contains(joined, tc.want) {
				t.Fatalf("expected %q in %q", tc.want, joined)
			}
		})
	}
}

func TestValidateEmptyFieldSuppressesLengthRules(t *testing.T) {
	res := Validate(Input{Name: strPtr(""), Email: strPtr("")}, DefaultLimits())

	if len(res.Errors) != 2 {
		t.Fatalf("expected exactly the two empty messages, got %v", res.Errors)
	}
	if res.Errors[0] != "Name cannot be empty" || res.Errors[1] != "Email cannot be empty" {
		t.Fatalf("unexpected messages: %v", res.Errors)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	limits := DefaultLimits()

	valid := []string{"a@b.co", "john.doe@example.com", "x+y@sub.domain.org"}
	for _, email := range valid {
		res := Validate(Input{Name: strPtr("John"), Email: strPtr(email)}, limits)
		if !res.Valid {
			t.Errorf("expected %q valid, got %v", email, res.Errors)
		}
	}

	invalid := []string{"plainaddress", "missing@domain", "@no-local.com", "spaces in@mail.com"}
	for _, email := range invalid {
		res := Validate(Input{Name: strPtr("John"), Email: strPtr(email)}, limits)
		if res.Valid {
			t.Errorf("expected %q invalid", email)
		}
	}
}

func TestValidateReferralCode(t *testing.T) {
	limits := DefaultLimits()
	base := Input{Name: strPtr("John"), Email: strPtr("john@example.com")}

	res := Validate(base, limits)
	if !res.Valid {
		t.Fatalf("absent code should be valid, got %v", res.Errors)
	}

	base.ReferralCode = strPtr("ABC123")
	if res := Validate(base, limits); !res.Valid {
		t.Fatalf("expected ABC123 valid, got %v", res.Errors)
	}

	base.ReferralCode = strPtr("abc12!")
	res = Validate(base, limits)
	if res.Valid {
		t.Fatal("expected lowercase/symbol code invalid")
	}
	joined := strings.Join(res.Errors, ", ")
	if !strings.Contains(joined, "Referral code must contain only uppercase letters and numbers") {
		t.Fatalf("missing content message in %q", joined)
	}

	base.ReferralCode = strPtr("AB")
	res = Validate(base, limits)
	if res.Valid || res.Errors[0] != "Referral code must be exactly 6 characters" {
		t.Fatalf("expected length message, got %v", res.Errors)
	}
}
