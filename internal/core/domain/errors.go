package domain

import "errors"

var (
	ErrInvalidName         = errors.New("student name is required")
	ErrInvalidQuestion     = errors.New("question is required")
	ErrInsufficientOptions = errors.New("at least two options are required")
	ErrNoActiveSession     = errors.New("no active poll")
	ErrInvalidOption       = errors.New("invalid option for this poll")
	ErrDuplicateSubmission = errors.New("already answered this poll")
	ErrNoActivePoll        = errors.New("no active poll to end")
	ErrNameMismatch        = errors.New("student name does not match this connection")
)
