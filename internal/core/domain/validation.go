package domain

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationFinding is a single issue found in one record field.
// Findings are produced fresh on every validator run and never persisted.
type ValidationFinding struct {
	RecordID string   `json:"recordId"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationReport aggregates all findings from one validator pass.
type ValidationReport struct {
	// TotalRecords is the number of records examined.
	TotalRecords int `json:"totalRecords"`

	// Errors and Warnings preserve discovery order.
	Errors   []ValidationFinding `json:"errors"`
	Warnings []ValidationFinding `json:"warnings"`

	// FieldCounts groups finding counts by field name.
	FieldCounts map[string]int `json:"fieldCounts"`

	// Valid is true when no errors were found. Warnings do not affect it.
	Valid bool `json:"valid"`
}

// AddError appends an error finding and updates the aggregates.
func (r *ValidationReport) AddError(recordID, field, message string) {
	r.Errors = append(r.Errors, ValidationFinding{
		RecordID: recordID,
		Field:    field,
		Message:  message,
		Severity: SeverityError,
	})
	r.countField(field)
}

// AddWarning appends a warning finding and updates the aggregates.
func (r *ValidationReport) AddWarning(recordID, field, message string) {
	r.Warnings = append(r.Warnings, ValidationFinding{
		RecordID: recordID,
		Field:    field,
		Message:  message,
		Severity: SeverityWarning,
	})
	r.countField(field)
}

func (r *ValidationReport) countField(field string) {
	if r.FieldCounts == nil {
		r.FieldCounts = make(map[string]int)
	}
	r.FieldCounts[field]++
}
