package queue

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction         = errors.New("invalid queued action")
	ErrUnknownAction         = errors.New("unknown action")
	ErrUnknownChoice         = errors.New("unknown choice")
	ErrEquipmentNotHeld      = errors.New("equipment not held")
	ErrInvalidStrategy       = errors.New("invalid queue strategy")
	ErrQueueCapacityExceeded = errors.New("queue capacity exceeded")
	ErrQueueTimeExceeded     = errors.New("queue time exceeded")
)

// ValidationError reports which queued action was rejected and why.
type ValidationError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("action %d: %s: %s", e.Index, e.Err.Error(), e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type CapacityError struct {
	Requested int
	Limit     int
	Err       error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: requested=%d limit=%d", e.Err.Error(), e.Requested, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return e.Err
}
