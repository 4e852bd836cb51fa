package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrNotAllowed        = errors.New("actor is not allowed to manage this event")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrSignupClosed      = errors.New("signup is only open for approved events")
	ErrNoTagsSelected    = errors.New("at least one tag must be selected")
	ErrLastTag           = errors.New("the last selected tag cannot be removed")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrEmptyInput        = errors.New("input is empty")
	ErrBadDateFormat     = errors.New("date must be in DD.MM.YYYY format")
	ErrBadTimeFormat     = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrDraftIncomplete   = errors.New("draft is missing required fields")
)
