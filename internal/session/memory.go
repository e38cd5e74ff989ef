package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a process-local Store for tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	raw, ok := m.data[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	sess := &Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sess.ID] = raw
	if prev := sess.PreviousID(); prev != "" && prev != sess.ID {
		delete(m.data, prev)
	}
	sess.modified = false
	sess.previousID = ""
	return nil
}

// Touch only checks the session exists; MemoryStore keeps no TTL.
func (m *MemoryStore) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
