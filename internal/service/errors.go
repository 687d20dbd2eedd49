package service

import "errors"

var (
	// ErrNotOwner is returned when a user attempts to delete a task they
	// did not create.
	ErrNotOwner = errors.New("task can only be deleted by its creator")

	// ErrAssigneeNotFound is returned when a task create or update names
	// an assignee that does not exist.
	ErrAssigneeNotFound = errors.New("assigned user not found")

	// ErrInvalidCredentials is returned when login fails, for either an
	// unknown email or a wrong password. The two cases are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
