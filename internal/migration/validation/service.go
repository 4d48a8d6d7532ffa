package validation

import (
	"strings"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
)

// ServiceValidator validates the contact fields shared by every service
// type and overwrites them with their sanitised values.
type ServiceValidator struct{}

func (ServiceValidator) Validate(s *legacy.Service) *Result {
	result := &Result{OriginRecordID: s.ID, Sanitised: s}

	email := ValidateEmail(raw(s.Email), "email")
	s.Email = email.Sanitised
	result.Issues = append(result.Issues, email.Issues...)

	public := ValidatePhoneNumber(raw(s.PublicPhone), "publicphone")
	s.PublicPhone = public.Sanitised
	result.Issues = append(result.Issues, public.Issues...)

	private := ValidatePhoneNumber(raw(s.NonPublicPhone), "nonpublicphone")
	s.NonPublicPhone = private.Sanitised
	result.Issues = append(result.Issues, private.Issues...)

	return result
}

// GPPracticeValidator additionally requires a public name and strips any
// suffix after the first "-".
type GPPracticeValidator struct {
	ServiceValidator
}

func (v GPPracticeValidator) Validate(s *legacy.Service) *Result {
	result := v.ServiceValidator.Validate(s)

	name := ValidatePublicName(raw(s.PublicName))
	s.PublicName = name.Sanitised
	result.Issues = append(result.Issues, name.Issues...)

	return result
}

// ValidatePublicName requires a non-empty name and returns it cleaned of
// any "-" suffix.
func ValidatePublicName(value interface{}) FieldResult {
	result := FieldResult{Original: value}

	name, _ := value.(string)
	if name == "" {
		result.Issues = append(result.Issues,
			newIssue(SeverityFatal, "publicname_required", "Public name is required for GP practices", nil, "publicname"))
		return result
	}

	cleaned := CleanName(name)
	result.Sanitised = &cleaned
	return result
}

// CleanName truncates name at the first "-" and trims trailing whitespace.
func CleanName(name string) string {
	before, _, _ := strings.Cut(name, "-")
	return strings.TrimRight(before, " \t\r\n")
}
