// Package validation checks candidate API keys against the service that
// issued them.
//
// Services are looked up in a Registry by identifier. Each maps to a
// Validator, so new services are registered rather than added to a switch.
// Registry.Check turns every validator failure, including a panic, into a
// rejection wrapped in ErrValidationFailed. Validation never stores the
// candidate key.
package validation
