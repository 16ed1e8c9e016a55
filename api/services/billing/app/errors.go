package app

import "errors"

// Typed errors for the billing app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (

	// ErrNotFound indicates no subscription exists for the given key or customer.
	ErrNotFound = errors.New("subscription not found")
	// ErrStore indicates a storage-related failure.
	ErrStore = errors.New("store error")
	// ErrGateway indicates a failure from the billing gateway / API calls.
	ErrGateway = errors.New("gateway error")
	// ErrMissingFields indicates required input fields were absent.
	ErrMissingFields = errors.New("missing required fields")
)
