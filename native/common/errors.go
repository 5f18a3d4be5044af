package common

import "errors"

// The three rejection classes every module failure resolves to. Module
// packages declare their own package-prefixed sentinels and wrap exactly one
// of these, so transport layers can classify with errors.Is without knowing
// individual sentinels.
var (
	// ErrAuthorization marks callers that lack the identity an operation
	// requires (not admin, not an active student, not an active provider).
	ErrAuthorization = errors.New("authorization")
	// ErrValidation marks malformed input: out-of-bound discounts, fees or
	// ratings, updates against records that were never created, duplicate
	// ratings.
	ErrValidation = errors.New("validation")
	// ErrState marks operations whose target exists but is not in a state
	// that permits the operation: inactive providers or services at payment
	// time, balance shortfalls.
	ErrState = errors.New("state")
)
