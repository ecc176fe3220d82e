package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering, e.g. "text_accepted".
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSessionID is the standardized key for reading session identifiers.
	FieldSessionID = "session_id"
	// FieldFrame is the capture frame counter.
	FieldFrame = "frame"
	// FieldDecisionStage names the filter gate that decided a detection.
	FieldDecisionStage = "decision_stage"
	// FieldEngine names the OCR or speech engine involved.
	FieldEngine = "engine"
	// FieldDevice is the camera device node.
	FieldDevice = "device"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
