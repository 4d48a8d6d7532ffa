package validation

import (
	"fmt"

	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

var issueTypes = map[string]string{
	"email_not_string":    fhir.IssueTypeValue,
	"invalid_length":      fhir.IssueTypeValue,
	"invalid_format":      fhir.IssueTypeInvalid,
	"not_nhs_email":       fhir.IssueTypeBusinessRule,
	"not_string":          fhir.IssueTypeValue,
	"empty":               fhir.IssueTypeRequired,
	"publicname_required": fhir.IssueTypeRequired,
}

// ToOperationOutcome renders issues as a FHIR OperationOutcome. The issue
// code is carried in details so the FHIR issue type stays a valid code.
func ToOperationOutcome(issues []Issue) *fhir.OperationOutcome {
	b := fhir.NewOutcomeBuilder()
	for _, issue := range issues {
		issueType, ok := issueTypes[issue.Code]
		if !ok {
			issueType = fhir.IssueTypeInvalid
		}
		details := &fhir.CodeableConcept{
			Coding: []fhir.Coding{{Code: issue.Code, Display: issue.Diagnostics}},
		}
		if issue.Value != nil {
			details.Text = fmt.Sprint(issue.Value)
		}
		b.AddIssueWithDetails(string(issue.Severity), issueType, issue.Diagnostics, details, issue.Expression...)
	}
	return b.Build()
}
