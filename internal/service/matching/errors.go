package matching

import "errors"

// Sentinels for the engine's failure modes. Service methods wrap them in
// AppErrors carrying the client-facing message, so callers can match with
// errors.Is and the HTTP layer still gets the right status.
var (
	ErrSelfReference    = errors.New("self reference")
	ErrTargetNotFound   = errors.New("target user not found")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrPostNotFound     = errors.New("post not found")
	ErrRequestNotFound  = errors.New("request not found")
	ErrForbidden        = errors.New("not the receiver")
	ErrAlreadyResolved  = errors.New("request already resolved")
	ErrInvalidDecision  = errors.New("invalid decision")
)
