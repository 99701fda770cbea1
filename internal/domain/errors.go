package domain

import "errors"

// Failure kinds for the acquisition pipeline. Callers match with errors.Is;
// the underlying cause is attached with fmt.Errorf("...: %w", ...) wrapping.
var (
	// ErrInvalidSelection indicates a malformed format selection token.
	ErrInvalidSelection = errors.New("invalid format selection")

	// ErrExtractionFailed indicates the engine could not obtain the media
	// (unsupported URL, private or restricted content, no matching stream).
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEngineUnexpected covers every other engine-side failure, including
	// timeouts. The wrapped detail is for server-side diagnostics only and
	// must never be shown to the client.
	ErrEngineUnexpected = errors.New("unexpected engine error")
)

// ErrorKind returns a short stable label for a pipeline failure, suitable
// for history records and log fields.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, ErrEngineUnexpected):
		return "engine_error"
	default:
		return "unknown"
	}
}
