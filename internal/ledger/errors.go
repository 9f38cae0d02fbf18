package ledger

import "errors"

// Sentinel errors for rejected mutations. A rejected mutation leaves the
// ledger untouched.
var (
	ErrProductNotFound   = errors.New("ledger: product not found")
	ErrNegativeStock     = errors.New("ledger: stock would become negative")
	ErrInvalidDelta      = errors.New("ledger: stock delta must be non-zero")
	ErrInvalidProduct    = errors.New("ledger: invalid product")
	ErrEmptyCart         = errors.New("ledger: cart is empty")
	ErrInsufficientStock = errors.New("ledger: insufficient stock for checkout")
	ErrCheckoutFinished  = errors.New("ledger: checkout already finished")

	ErrUserNotFound  = errors.New("ledger: user not found")
	ErrUsernameTaken = errors.New("ledger: username already taken")
	ErrLastAdmin     = errors.New("ledger: cannot remove the last admin")
	ErrInvalidUser   = errors.New("ledger: invalid user")

	ErrInvalidField = errors.New("ledger: invalid field or value")
)

// IsRejection reports whether err is a validation rejection rather than an
// I/O failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrNegativeStock) ||
		errors.Is(err, ErrInvalidDelta) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrCheckoutFinished) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrLastAdmin) ||
		errors.Is(err, ErrInvalidUser) ||
		errors.Is(err, ErrInvalidField)
}
