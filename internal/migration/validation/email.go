package validation

import (
	"regexp"
	"strings"
)

const maxEmailLength = 254

var (
	emailLocalRe  = regexp.MustCompile("^(\"[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~\\-\\s]+\"|[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~\\-])+$")
	emailDomainRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9-]{1,63})+$`)
	nhsDomainRe   = regexp.MustCompile(`^(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)*(?:nhs\.net|nhs\.uk)$`)
)

var emailMessages = map[string]string{
	"email_not_string": "Email must be a string",
	"invalid_length":   "Email length is too long",
	"invalid_format":   "Email address is invalid",
	"not_nhs_email":    "Email address is not a valid NHS email address",
}

// ValidateEmail checks type, length, format and NHS domain in that order,
// stopping at the first failure.
func ValidateEmail(value interface{}, expression string) FieldResult {
	result := FieldResult{Original: value}
	fail := func(code string) FieldResult {
		result.Issues = append(result.Issues, newIssue(SeverityError, code, emailMessages[code], value, expression))
		return result
	}

	email, ok := value.(string)
	if !ok || email == "" {
		return fail("email_not_string")
	}
	if len(email) > maxEmailLength {
		return fail("invalid_length")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || !validLocalPart(parts[0]) || !emailDomainRe.MatchString(parts[1]) {
		return fail("invalid_format")
	}
	if !nhsDomainRe.MatchString(parts[1]) {
		return fail("not_nhs_email")
	}

	result.Sanitised = &email
	return result
}

func validLocalPart(local string) bool {
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	return emailLocalRe.MatchString(local)
}
