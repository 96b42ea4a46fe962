package notification

import "errors"

// Notification domain errors
var (
	ErrQueueFull       = errors.New("notification queue is full")
	ErrStopped         = errors.New("notification service stopped")
	ErrEmptyRecipient  = errors.New("notification recipient is empty")
	ErrUnknownSinkType = errors.New("unknown notifier type")
)
