package taskstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"practice-automation/internal/tasks"
)

// MemoryStore keeps tasks in memory. It backs dry runs and tests.
type MemoryStore struct {
	URLBase string

	// Err, when set, is returned by every CreateTask call.
	Err error

	mu      sync.Mutex
	created []Record
}

// Record is a stored task and the id it was given.
type Record struct {
	Ref  tasks.Ref
	Task tasks.Task
}

func NewMemoryStore(urlBase string) *MemoryStore {
	return &MemoryStore{URLBase: urlBase}
}

func (s *MemoryStore) CreateTask(ctx context.Context, t tasks.Task) (tasks.Ref, error) {
	if s.Err != nil {
		return tasks.Ref{}, s.Err
	}
	if err := validate(t); err != nil {
		return tasks.Ref{}, err
	}
	id := uuid.NewString()
	ref := tasks.Ref{ID: id, URL: URLFor(s.URLBase, id)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, Record{Ref: ref, Task: t})
	return ref, nil
}

func (s *MemoryStore) Created() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.created))
	copy(out, s.created)
	return out
}

func validate(t tasks.Task) error {
	if t.ListID == "" {
		return ErrNoList
	}
	if t.Name == "" {
		return ErrNoName
	}
	return nil
}
