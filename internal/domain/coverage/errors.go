package coverage

import "errors"

var (
	// ErrInvalidInput indicates a malformed or incomplete feature manifest.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTestLocation indicates the discovered tests lack a required top-level category.
	ErrInvalidTestLocation = errors.New("invalid test location")

	// ErrInvalidRules indicates a rule set that cannot drive matching.
	ErrInvalidRules = errors.New("invalid rules")
)
