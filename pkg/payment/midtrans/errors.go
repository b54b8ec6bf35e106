package midtrans

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrTransactionNotFound is returned when the gateway does not know the order id
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrTransactionFailed is returned when the gateway rejects the transaction
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the server key is invalid
	ErrUnauthorized = errors.New("unauthorized: invalid server key")
)
