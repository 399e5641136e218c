package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"
)

// InMemoryStore is a volatile Store implementation keeping documents in
// process-local maps. It is safe for concurrent access and best suited for
// tests or ephemeral demo sessions. Documents are copied on read so callers
// cannot mutate internal state.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
	order       map[string][]string // insertion order per collection
	subs        map[int]*memorySub
	nextSub     int
}

type memorySub struct {
	collection string
	query      Query
	onAdded    func(Doc)
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		collections: make(map[string]map[string]json.RawMessage),
		order:       make(map[string][]string),
		subs:        make(map[int]*memorySub),
	}
}

// Get loads the document stored under key into dest.
func (s *InMemoryStore) Get(_ context.Context, collection, key string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

// Put upserts a full document under key.
func (s *InMemoryStore) Put(_ context.Context, collection, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(collection, key, data)
	return nil
}

// Patch merges top-level fields into an existing document.
func (s *InMemoryStore) Patch(_ context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][key]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		var err error
		data, err = sjson.SetBytes(data, k, v)
		if err != nil {
			return fmt.Errorf("patch field %q: %w", k, err)
		}
	}
	s.collections[collection][key] = data
	return nil
}

// Append stores a document under a generated id and notifies matching
// subscribers. Listeners run outside the store lock.
func (s *InMemoryStore) Append(_ context.Context, collection string, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.putLocked(collection, id, data)
	var notify []*memorySub
	for _, sub := range s.subs {
		if sub.collection == collection && Matches(data, sub.query) {
			notify = append(notify, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range notify {
		sub.onAdded(Doc{ID: id, Data: data})
	}
	return id, nil
}

// Query returns the documents matching q in insertion order, sorted and
// capped per the query options.
func (s *InMemoryStore) Query(_ context.Context, collection string, q Query) ([]Doc, error) {
	s.mu.RLock()
	var docs []Doc
	for _, key := range s.order[collection] {
		data := s.collections[collection][key]
		if Matches(data, q) {
			docs = append(docs, Doc{ID: key, Data: append(json.RawMessage(nil), data...)})
		}
	}
	s.mu.RUnlock()

	SortDocs(docs, q)
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// Subscribe registers an added-document listener. Existing documents are
// never replayed.
func (s *InMemoryStore) Subscribe(_ context.Context, collection string, q Query, onAdded func(Doc)) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &memorySub{collection: collection, query: q, onAdded: onAdded}
	return &memorySubscription{store: s, id: id}, nil
}

func (s *InMemoryStore) putLocked(collection, key string, data json.RawMessage) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]json.RawMessage)
	}
	if _, exists := s.collections[collection][key]; !exists {
		s.order[collection] = append(s.order[collection], key)
	}
	s.collections[collection][key] = data
}

type memorySubscription struct {
	store *InMemoryStore
	id    int
	once  sync.Once
}

// Cancel removes the listener. Safe to call more than once.
func (m *memorySubscription) Cancel() {
	m.once.Do(func() {
		m.store.mu.Lock()
		delete(m.store.subs, m.id)
		m.store.mu.Unlock()
	})
}
