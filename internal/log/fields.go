package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Dispatch fields
	FieldAction = "action"
	FieldModel  = "model"
	FieldMethod = "method"

	// Backend fields
	FieldBaseURL  = "base_url"
	FieldDatabase = "database"
	FieldUsername = "username"
)
