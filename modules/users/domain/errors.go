package domain

import "errors"

// Domain errors - business rule violations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserDeleted    = errors.New("user has been deleted")
	ErrUserExists     = errors.New("user is already registered")
	ErrSelfDemotion   = errors.New("admins cannot change their own role")
	ErrSelfDeletion   = errors.New("admins cannot delete their own account")
	ErrRoleNotAllowed = errors.New("role cannot be self-assigned")

	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("email format is invalid")
	ErrEmailExists   = errors.New("email already exists")

	ErrFirstNameRequired = errors.New("first name is required")
	ErrFirstNameLength   = errors.New("first name must be 2-50 characters")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrLastNameLength    = errors.New("last name must be 2-50 characters")

	ErrInvalidPhone = errors.New("phone must be 9-15 digits")
	ErrInvalidRole  = errors.New("role must be user, supplier or admin")
)
