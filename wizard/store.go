package wizard

import (
	"encoding/json"
	"sync"
)

// Store holds one draft per user. Mutations run under the lock via
// Update; reads get a deep copy so handlers never share draft memory
// with a concurrent request.
type Store struct {
	mu     sync.Mutex
	drafts map[uint]*Draft
}

func NewStore() *Store {
	return &Store{drafts: map[uint]*Draft{}}
}

// Get returns a copy of the user's draft, creating an empty one on
// first touch.
func (s *Store) Get(userID uint) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.draft(userID))
}

// Update applies fn to the user's draft under the lock and returns a
// copy of the result.
func (s *Store) Update(userID uint, fn func(*Draft)) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft(userID)
	fn(d)
	return clone(d)
}

// Reset discards the user's draft.
func (s *Store) Reset(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

// Restore replaces the user's draft with a previously serialized one.
func (s *Store) Restore(userID uint, payload []byte) error {
	d := NewDraft()
	if err := json.Unmarshal(payload, d); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = d
	return nil
}

// Serialize returns the draft as JSON for write-through persistence.
func Serialize(d *Draft) ([]byte, error) {
	return json.Marshal(d)
}

func (s *Store) draft(userID uint) *Draft {
	d, ok := s.drafts[userID]
	if !ok {
		d = NewDraft()
		s.drafts[userID] = d
	}
	return d
}

func clone(d *Draft) *Draft {
	data, err := json.Marshal(d)
	if err != nil {
		return NewDraft()
	}
	out := NewDraft()
	if err := json.Unmarshal(data, out); err != nil {
		return NewDraft()
	}
	return out
}
