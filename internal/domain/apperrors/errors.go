// Package apperrors defines the error taxonomy shared by the funnel
// services and the HTTP layer. Handlers map these sentinels onto fixed
// response bodies; internal detail never leaks to the caller.
package apperrors

import "errors"

var (
	// ErrValidation signals missing or malformed required input fields.
	ErrValidation = errors.New("missing required fields")

	// ErrMethodNotAllowed signals the wrong HTTP verb for an endpoint.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrAnalyticsTracking is the uniform failure for any analytics
	// emission problem, regardless of the underlying transport cause.
	ErrAnalyticsTracking = errors.New("Failed to track analytics event")

	// ErrInternal signals an unexpected downstream failure.
	ErrInternal = errors.New("internal server error")

	// ErrUnauthorized signals failed or missing authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
)
