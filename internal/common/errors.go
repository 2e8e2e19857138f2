// Package common holds sentinel errors shared by repositories, services and
// the HTTP layer. Match them with errors.Is.
package common

import "errors"

var (
	// repository errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service errors
	ErrorInternal             = errors.New("internal error")
	ErrorIncorrectCredentials = errors.New("incorrect email or password")
	ErrorImageStorageDisabled = errors.New("image storage is not configured")
	ErrorImageNotSet          = errors.New("image not set")

	// ErrInvalidToken covers every bearer token failure: missing, malformed,
	// badly signed, expired or carrying an unusable subject.
	ErrInvalidToken = errors.New("could not validate credentials")
)
