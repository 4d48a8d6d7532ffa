package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		wantCode string
	}{
		{"valid nhs.net", "test.user@nhs.net", ""},
		{"valid nhs.uk subdomain", "reception@practice.nhs.uk", ""},
		{"valid nested subdomain", "a@b.c.nhs.net", ""},
		{"non nhs domain", "test.user@gmail.com", "not_nhs_email"},
		{"non string", 12345, "email_not_string"},
		{"nil", nil, "email_not_string"},
		{"empty", "", "email_not_string"},
		{"too long", strings.Repeat("a", 250) + "@nhs.net", "invalid_length"},
		{"missing at", "test.user.nhs.net", "invalid_format"},
		{"two ats", "a@b@nhs.net", "invalid_format"},
		{"leading dot", ".test@nhs.net", "invalid_format"},
		{"trailing dot", "test.@nhs.net", "invalid_format"},
		{"double dot", "te..st@nhs.net", "invalid_format"},
		{"domain leading hyphen", "test@-nhs.net", "invalid_format"},
		{"domain without tld", "test@localhost", "invalid_format"},
		{"hyphenated subdomain label", "test@-bad.nhs.net", "invalid_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.value, "email")
			if tt.wantCode == "" {
				if len(got.Issues) != 0 {
					t.Fatalf("expected no issues, got %+v", got.Issues)
				}
				if got.Sanitised == nil || *got.Sanitised != tt.value {
					t.Errorf("expected sanitised value %v, got %v", tt.value, got.Sanitised)
				}
				return
			}
			if len(got.Issues) != 1 {
				t.Fatalf("expected exactly one issue, got %+v", got.Issues)
			}
			issue := got.Issues[0]
			if issue.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, issue.Code)
			}
			if issue.Severity != SeverityError {
				t.Errorf("expected error severity, got %s", issue.Severity)
			}
			if len(issue.Expression) != 1 || issue.Expression[0] != "email" {
				t.Errorf("expected expression [email], got %v", issue.Expression)
			}
			if got.Sanitised != nil {
				t.Errorf("expected nil sanitised value, got %s", *got.Sanitised)
			}
		})
	}
}

func TestValidateEmail_Messages(t *testing.T) {
	got := ValidateEmail("test.user@gmail.com", "email")
	if got.Issues[0].Diagnostics != "Email address is not a valid NHS email address" {
		t.Errorf("unexpected diagnostics %q", got.Issues[0].Diagnostics)
	}
	if got.Issues[0].Value != "test.user@gmail.com" {
		t.Errorf("expected offending value recorded, got %v", got.Issues[0].Value)
	}
}
