package client

import "errors"

var (
	ErrUnavailable           = errors.New("node unavailable")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrTxNotFound            = errors.New("transaction not found")
)
