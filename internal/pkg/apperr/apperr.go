package apperr

import "errors"

// Sentinel errors surfaced by the analytics pipeline. Handlers translate
// these into HTTP statuses; background jobs log and continue.
var (
	// ErrNotYetAnalyzed is returned when a read arrives before any answer
	// has ever been processed for the user.
	ErrNotYetAnalyzed = errors.New("not yet analyzed")
	// ErrInsufficientAnswers is returned when a refresh is requested below
	// the answer-count threshold, or when inference has no answers at all.
	ErrInsufficientAnswers = errors.New("insufficient answers")
	// ErrInventoryShape is returned when an inventory batch comes back with
	// the wrong number of items.
	ErrInventoryShape = errors.New("inventory shape mismatch")
	// ErrSchemaValidation is returned when a structured-output call cannot
	// produce a conforming value within the retry budget.
	ErrSchemaValidation = errors.New("schema validation failed")
	// ErrUnknownCategory is returned when a value label falls outside the
	// closed facet vocabulary.
	ErrUnknownCategory = errors.New("unknown value category")
	// ErrModelUnavailable marks a transient model-side failure.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrRateLimited marks a 429 from the model provider.
	ErrRateLimited = errors.New("rate limited")
	// ErrContentFiltered marks a model refusal; terminal for the call.
	ErrContentFiltered = errors.New("content filtered")
	// ErrInvalidDemographic is returned when age or sex is out of domain
	// after defaulting. Should be unreachable in practice.
	ErrInvalidDemographic = errors.New("invalid demographic")

	ErrMissingAnswer   = errors.New("answer not found")
	ErrMissingQuestion = errors.New("question not found")
)

// Transient reports whether the caller may retry the operation as-is.
func Transient(err error) bool {
	return errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrRateLimited)
}
