// Package client talks to the accounts HTTP API.
//
// HTTPClient keeps the bearer token returned by Login in memory and sends
// it on every protected call. Server responses are mapped onto the sentinel
// errors in errors.go so callers can branch with errors.Is:
//
//	403            -> ErrUnauthorized
//	404            -> ErrNotFound
//	400, 422       -> *APIError (detail from the body)
//	5xx, transport -> ErrUnavailable
package client
