// Package taskstore persists follow-up tasks and hands back their references.
package taskstore

import (
	"errors"
	"strings"
)

var (
	ErrNoList = errors.New("taskstore: list id is required")
	ErrNoName = errors.New("taskstore: task name is required")
)

// URLFor joins the public task URL base and a task id. An empty base yields "".
func URLFor(base, id string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return base + "/" + id
}
