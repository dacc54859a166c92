package services

import "errors"

// Business errors surfaced to the HTTP layer. Controllers map these onto
// status codes; anything else is a 500.
var (
	ErrForbidden        = errors.New("you do not have permission for this request")
	ErrNotFound         = errors.New("request not found")
	ErrInvalidState     = errors.New("request is not in a state that allows this operation")
	ErrEmptyRequest     = errors.New("request has no line items to submit")
	ErrEmptyPurchase    = errors.New("request has no line items to purchase")
	ErrAlreadyFinalized = errors.New("request has already been finalized")
	ErrStaleVersion     = errors.New("request was modified by someone else, reload and retry")
)
