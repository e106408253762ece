package errs

import "errors"

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrMerchantMismatch = errors.New("ticket does not belong to merchant")
	ErrNotAuthorized    = errors.New("actor is not an admin")
	ErrInvalidStatus    = errors.New("invalid ticket status")
	ErrInvalidPriority  = errors.New("invalid ticket priority")
)
