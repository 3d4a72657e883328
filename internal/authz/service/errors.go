package service

import "errors"

var (
	// ErrUnauthenticated means no usable identity reference was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPrincipalNotFound means the identity reference resolves to nothing.
	// The enforcement layer reports it as unauthenticated so callers cannot
	// probe whether an id used to exist.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalInactive means the account exists but was deactivated.
	ErrPrincipalInactive = errors.New("principal inactive")
	// ErrBadRequest covers malformed decision-API input.
	ErrBadRequest = errors.New("bad request")
)
