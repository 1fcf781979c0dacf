package api

import "errors"

// Protocol error kinds. All of them are fatal to the current session;
// callers must discard derived state and retry, if at all, with fresh
// nonces and fresh OLE samples.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPolynomialNonZero = errors.New("polynomial does not vanish at evaluation point")
	ErrDegreeExceedsSRS  = errors.New("polynomial degree exceeds SRS")
	ErrDegenerateSetup   = errors.New("degenerate setup")
	ErrChallengeMismatch = errors.New("challenge mismatch")
	ErrMACFailed         = errors.New("MAC verification failed")
	ErrLengthMismatch    = errors.New("length mismatch")
	ErrPoolExhausted     = errors.New("pool exhausted")
	ErrDuplicateOLEIndex = errors.New("duplicate OLE index")
)
