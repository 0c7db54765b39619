package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing destination, end date before start date).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a unique constraint would be violated,
// e.g. registering an email that is already taken. Maps to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for bad credentials or an invalid bearer token.
// Maps to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConfiguration covers local failures of the generation step: a missing
// API key, or a provider response the client cannot extract text from.
// Fatal and never retried. Maps to HTTP 500.
var ErrConfiguration = errors.New("generation service configuration error")

// ErrServiceUnavailable wraps any transport or provider-side failure of the
// generation call (network, auth, quota, timeout). Callers may retry later.
// Maps to HTTP 503.
var ErrServiceUnavailable = errors.New("generation service unavailable")

// ErrMalformedResponse is returned when the provider answered but its text
// is not valid JSON after fence stripping. Maps to HTTP 502.
var ErrMalformedResponse = errors.New("malformed generation response")

// ErrStorage is returned when a plan was produced but could not be written
// to history. The plan itself is still valid.
var ErrStorage = errors.New("storage error")
