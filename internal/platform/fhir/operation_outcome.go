package fhir

const (
	IssueSeverityFatal       = "fatal"
	IssueSeverityError       = "error"
	IssueSeverityWarning     = "warning"
	IssueSeverityInformation = "information"
)

const (
	IssueTypeInvalid      = "invalid"
	IssueTypeRequired     = "required"
	IssueTypeValue        = "value"
	IssueTypeNotFound     = "not-found"
	IssueTypeProcessing   = "processing"
	IssueTypeBusinessRule = "business-rule"
)

// OperationOutcome carries validation issues and API errors.
type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

type OperationOutcomeIssue struct {
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Details     *CodeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
	Expression  []string         `json:"expression,omitempty"`
}

func ErrorOutcome(diagnostics string) *OperationOutcome {
	return NewOutcomeBuilder().AddIssue(IssueSeverityError, IssueTypeProcessing, diagnostics).Build()
}

func NotFoundOutcome(resourceType, id string) *OperationOutcome {
	return NewOutcomeBuilder().AddIssue(IssueSeverityError, IssueTypeNotFound, FormatReference(resourceType, id)+" not found").Build()
}

// OutcomeBuilder accumulates issues; an outcome with no issues still
// serialises an empty issue array.
type OutcomeBuilder struct {
	outcome *OperationOutcome
}

func NewOutcomeBuilder() *OutcomeBuilder {
	return &OutcomeBuilder{
		outcome: &OperationOutcome{
			ResourceType: "OperationOutcome",
			Issue:        []OperationOutcomeIssue{},
		},
	}
}

func (b *OutcomeBuilder) AddIssue(severity, code, diagnostics string, expression ...string) *OutcomeBuilder {
	return b.AddIssueWithDetails(severity, code, diagnostics, nil, expression...)
}

// AddIssueWithDetails adds an issue whose details carry the coded reason.
func (b *OutcomeBuilder) AddIssueWithDetails(severity, code, diagnostics string, details *CodeableConcept, expression ...string) *OutcomeBuilder {
	b.outcome.Issue = append(b.outcome.Issue, OperationOutcomeIssue{
		Severity:    severity,
		Code:        code,
		Diagnostics: diagnostics,
		Details:     details,
		Expression:  expression,
	})
	return b
}

func (b *OutcomeBuilder) Build() *OperationOutcome {
	return b.outcome
}

// HasErrors reports whether any issue is error or fatal.
func (o *OperationOutcome) HasErrors() bool {
	for _, issue := range o.Issue {
		if issue.Severity == IssueSeverityError || issue.Severity == IssueSeverityFatal {
			return true
		}
	}
	return false
}
