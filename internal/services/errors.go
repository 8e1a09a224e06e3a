package services

import "fmt"

// ValidationError reports a missing or out-of-range field in the raw
// structured input. The offending field is named so the caller can fix it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Message)
}

// UpstreamExtractionError signals that the document-to-structured-data
// collaborator failed. No partial evaluation is returned when this happens.
type UpstreamExtractionError struct {
	Target string
	Err    error
}

func (e *UpstreamExtractionError) Error() string {
	return fmt.Sprintf("structured extraction failed for %s: %v", e.Target, e.Err)
}

func (e *UpstreamExtractionError) Unwrap() error {
	return e.Err
}

// ActionDispatchError wraps a notification-sender failure. It is logged and
// reflected in action_triggered, but never invalidates the finalized
// score or decision.
type ActionDispatchError struct {
	ActionType string
	Err        error
}

func (e *ActionDispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch action %q: %v", e.ActionType, e.Err)
}

func (e *ActionDispatchError) Unwrap() error {
	return e.Err
}
