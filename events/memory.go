package events

import (
	"context"
	"sync"
)

// MemoryPublisher records events in memory for tests
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned from Publish after recording
	Err error
}

// NewMemoryPublisher creates an empty recorder
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) Publish(_ context.Context, events ...Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return m.Err
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything published so far
func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Types returns the published event types in order
func (m *MemoryPublisher) Types() []Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]Type, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}
