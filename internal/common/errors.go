// Package common defines sentinel errors and small helpers shared by the
// client layers of zviewer. Callers should use errors.Is to match errors.
package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// vault and session errors
	ErrorLocked           = errors.New("vault is locked")
	ErrorNoWalletSelected = errors.New("no wallet selected")
)
