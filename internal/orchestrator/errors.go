package orchestrator

import (
	"errors"
	"fmt"
)

// ErrNotReady is the gate miss. It is reported as a successful no-op.
var ErrNotReady = errors.New("lead not yet at action stage")

// ConfigError means a required destination or channel mapping is absent.
type ConfigError struct {
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// StoreError wraps a task store create failure.
type StoreError struct {
	Cause error
}

func (e *StoreError) Error() string { return fmt.Sprintf("task store: %v", e.Cause) }

func (e *StoreError) Unwrap() error { return e.Cause }

// MessagingError wraps a notification failure that happened after the task was created.
type MessagingError struct {
	TaskID string
	Cause  error
}

func (e *MessagingError) Error() string {
	return fmt.Sprintf("notify task %s: %v", e.TaskID, e.Cause)
}

func (e *MessagingError) Unwrap() error { return e.Cause }
