// Package validation checks and sanitises legacy service fields before
// they are transformed.
package validation

import (
	"fmt"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
)

// Severity mirrors the FHIR OperationOutcome issue severities.
type Severity string

const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
	SeveritySuccess     Severity = "success"
)

type Issue struct {
	Value       interface{} `json:"value,omitempty"`
	Severity    Severity    `json:"severity"`
	Code        string      `json:"code"`
	Diagnostics string      `json:"diagnostics"`
	Expression  []string    `json:"expression,omitempty"`
}

// Note renders the issue as a migration note on the transformed service.
func (i Issue) Note() string {
	value := "null"
	if i.Value != nil {
		value = fmt.Sprint(i.Value)
	}
	return fmt.Sprintf("field:%v ,error: %s,message:%s,value:%s", i.Expression, i.Code, i.Diagnostics, value)
}

// Notes converts issues to migration notes. It returns nil for no issues.
func Notes(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Note())
	}
	return out
}

// FieldResult is the outcome of validating one value.
type FieldResult struct {
	Original  interface{}
	Sanitised *string
	Issues    []Issue
}

// Valid reports whether no error or fatal issue was raised.
func (r FieldResult) Valid() bool {
	return !hasSeverity(r.Issues, SeverityError, SeverityFatal)
}

// Result is the outcome of validating one legacy service.
type Result struct {
	OriginRecordID int64
	Issues         []Issue
	Sanitised      *legacy.Service
}

// IsValid reports whether no fatal or error issue exists.
func (r *Result) IsValid() bool {
	return !hasSeverity(r.Issues, SeverityError, SeverityFatal)
}

// ShouldContinue reports whether transformation may proceed, i.e. no fatal
// issue exists.
func (r *Result) ShouldContinue() bool {
	return !hasSeverity(r.Issues, SeverityFatal)
}

func hasSeverity(issues []Issue, severities ...Severity) bool {
	for _, issue := range issues {
		for _, s := range severities {
			if issue.Severity == s {
				return true
			}
		}
	}
	return false
}

// Validator validates and sanitises a legacy service.
type Validator interface {
	Validate(s *legacy.Service) *Result
}

func newIssue(severity Severity, code, diagnostics string, value interface{}, expression string) Issue {
	issue := Issue{
		Value:       value,
		Severity:    severity,
		Code:        code,
		Diagnostics: diagnostics,
	}
	if expression != "" {
		issue.Expression = []string{expression}
	}
	return issue
}

// raw unwraps a nullable string into an untyped value so field validators
// can distinguish absent values.
func raw(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
