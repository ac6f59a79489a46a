// internal/network/errors.go
package network

import "errors"

var (
	// ErrNetworkNotInitialized is returned when the network's state table has no rows.
	ErrNetworkNotInitialized = errors.New("network state table is empty")
	// ErrLengthMismatch is returned when parallel input slices differ in length.
	ErrLengthMismatch = errors.New("parallel inputs differ in length")
	// ErrInvalidBalance is returned when a balance string has no leading number.
	ErrInvalidBalance = errors.New("balance is not a number")
)
