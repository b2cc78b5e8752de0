package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	// ErrUnhandledStatus is reported when the transition function meets a
	// status outside the enumeration. The run ends instead of crashing.
	ErrUnhandledStatus = errors.New("unhandled status")

	// ErrMalformedGeneration means a writer response lacked the
	// RESPONSE_START/RESPONSE_END markers.
	ErrMalformedGeneration = errors.New("malformed generation response")

	// ErrStepLimit is reported when the driver's step ceiling stops a run.
	ErrStepLimit = errors.New("step limit reached")
)
