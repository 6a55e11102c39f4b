package aggregates

import "time"

// Severity is the paging severity of an alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityPage     Severity = "page"
)

// Alert is immutable once created. The message embeds the numeric evidence
// that triggered the alert so it is actionable without a follow-up query.
type Alert struct {
	ID        string
	Service   string
	Severity  Severity
	Message   string
	CreatedAt time.Time
}
