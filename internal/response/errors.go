package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Game-specific ─────────────────────────────────────────────────
	ErrSetRequired      ErrCode = "SET_REQUIRED"
	ErrUnknownSet       ErrCode = "UNKNOWN_SET"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrSessionAttached  ErrCode = "SESSION_ATTACHED"
	ErrSessionNotLive   ErrCode = "SESSION_NOT_LIVE"
	ErrResultsNotReady  ErrCode = "RESULTS_NOT_READY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "The request contains invalid fields."
	case ErrInvalidID:
		return "The identifier is not valid."
	case ErrInvalidPayload:
		return "The request payload could not be parsed."
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The request conflicts with the current state."
	case ErrSetRequired:
		return "Competition mode requires choosing a set."
	case ErrUnknownSet:
		return "No schedule exists for that set letter."
	case ErrNoQuestions:
		return "No questions are available for these settings."
	case ErrSessionAttached:
		return "Another client is already attached to this session."
	case ErrSessionNotLive:
		return "The session has already ended."
	case ErrResultsNotReady:
		return "The session has not finished yet."
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."
	case ErrInternal:
		return "An internal error occurred."
	default:
		return "Unknown error."
	}
}
