package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidOTP covers a wrong code and a missing code alike.
	ErrInvalidOTP = errors.New("invalid otp")
	ErrDelivery   = errors.New("otp delivery failed")
)
