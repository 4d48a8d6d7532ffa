package validation

import (
	"regexp"
	"strings"
)

const (
	phoneMaxLength     = 11
	phoneMinLength     = 8
	phoneInvalidLength = 9
)

var phoneRe = regexp.MustCompile(`^(?:(?:01|02|03|05|07|08|09)\d{9}|01\d{8}|0800\d{6}|0845464\d)$`)

var phoneMessages = map[string]string{
	"invalid_length": "Phone number length is invalid",
	"invalid_format": "Phone number is invalid",
	"not_string":     "Phone number must be a string",
	"empty":          "Phone number cannot be empty",
}

// ValidatePhoneNumber normalises a UK phone number and checks its length
// before its format.
func ValidatePhoneNumber(value interface{}, expression string) FieldResult {
	result := FieldResult{Original: value}
	fail := func(code string, v interface{}) FieldResult {
		result.Issues = append(result.Issues, newIssue(SeverityError, code, phoneMessages[code], v, expression))
		return result
	}

	if isEmpty(value) {
		return fail("empty", value)
	}
	phone, ok := value.(string)
	if !ok {
		return fail("not_string", value)
	}

	phone = strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(phone), " ", ""), "+44", "0")

	if n := len(phone); n > phoneMaxLength || n < phoneMinLength || n == phoneInvalidLength {
		return fail("invalid_length", phone)
	}
	if !phoneRe.MatchString(phone) {
		return fail("invalid_format", phone)
	}

	result.Sanitised = &phone
	return result
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case int:
		return v == 0
	case int64:
		return v == 0
	}
	return false
}
