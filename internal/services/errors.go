package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these onto
// HTTP statuses; anything else is surfaced as a generic 500 with the
// detail kept server-side.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")

	ErrAlreadyMember      = errors.New("user is already a member of the project")
	ErrAlreadyInvited     = errors.New("user already has a pending invitation")
	ErrInvitationResolved = errors.New("invitation has already been resolved")

	ErrNotProjectMember = errors.New("user is not a member of the project")
	ErrAlreadyAssigned  = errors.New("user is already assigned to this task")
)
