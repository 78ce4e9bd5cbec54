package errors

import "errors"

// Authorization.
var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")

// Validation: surfaced immediately, never retried.
var (
	ErrInvalidCart       = errors.New("cart has no show or no seats selected")
	ErrPaymentRefInvalid = errors.New("payment reference is malformed")
	ErrUserInvalid       = errors.New("user payload is invalid")
)

// Seat claim diagnostics. Distinguishable in logs, collapsed to
// ErrSeatsUnavailable at the API boundary.
var (
	ErrSeatNotFound      = errors.New("seat does not exist")
	ErrSeatAlreadyBooked = errors.New("seat is already booked")
	ErrShowMismatch      = errors.New("seat belongs to a different show")
)

// ErrSeatsUnavailable means the claim race was lost to another booking.
// The caller's cart keeps its contents so the user can reselect.
var ErrSeatsUnavailable = errors.New("one or more seats are no longer available")

// Lookups.
var (
	ErrShowNotFound  = errors.New("show not found")
	ErrSnackNotFound = errors.New("snack not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
)

// ErrUserExists rejects provisioning a duplicate email.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidTransition rejects any non-forward lifecycle move.
var ErrInvalidTransition = errors.New("order status can only move forward")

// Retryable failures.
var (
	ErrLockTimeout = errors.New("timed out waiting for seat inventory")
	ErrPersistence = errors.New("order could not be persisted")
)

// IsConflict reports whether err is a seat claim conflict in any of its
// diagnostic forms.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSeatsUnavailable) ||
		errors.Is(err, ErrSeatAlreadyBooked) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrShowMismatch)
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrPersistence)
}
