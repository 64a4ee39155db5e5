package ui

import "errors"

// Sentinel errors.
var (
	ErrUnknownControl   = errors.New("unknown control")
	ErrAlreadyStarted   = errors.New("binder already started")
	ErrDuplicateControl = errors.New("duplicate control id")
)
