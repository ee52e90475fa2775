package drop

// Code identifies a per-resource or per-operation failure.
type Code string

const (
	// DRP001 indicates the source resource could not be read.
	DRP001 Code = "DRP001"
	// DRP002 indicates a destination name could not be generated.
	DRP002 Code = "DRP002"
	// DRP003 indicates the destination could not be created or written.
	DRP003 Code = "DRP003"
	// DRP004 indicates a resolver task panicked.
	DRP004 Code = "DRP004"
	// DRP005 indicates the host failed to apply the accumulated edit.
	DRP005 Code = "DRP005"
)

// Severity classifies a Diagnostic.
type Severity string

const (
	// SeverityError marks a resource that was excluded from the snippet.
	SeverityError Severity = "error"
	// SeverityWarning marks a condition that did not change the snippet.
	SeverityWarning Severity = "warning"
)

// Diagnostic describes one failure observed during a drop.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	// URI is the resource the diagnostic concerns, empty for operation-level findings.
	URI string `json:"uri,omitempty"`
}
