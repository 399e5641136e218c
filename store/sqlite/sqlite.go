// Package sqlite provides a durable document store backed by a single SQLite
// file. Documents are stored as JSON rows; predicate evaluation and ordering
// reuse the shared logic from the store package so both backends answer
// queries identically. Added-document subscriptions are fanned out in-process,
// which is sufficient for the single-process-per-session deployment model.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"
	_ "modernc.org/sqlite"

	"github.com/agriguru/agriguru/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	data       TEXT NOT NULL,
	seq        INTEGER,
	PRIMARY KEY (collection, key)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection, seq);
`

// Store is a SQLite-backed implementation of store.Store.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	seq     int64
	subs    map[int]*subscriber
	nextSub int
}

type subscriber struct {
	collection string
	query      store.Query
	onAdded    func(store.Doc)
}

// Open creates or opens the database at path and prepares the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The store serializes writes itself; a single connection avoids
	// SQLITE_BUSY on concurrent access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	s := &Store{db: db, subs: make(map[int]*subscriber)}
	if err := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM documents`).Scan(&s.seq); err != nil {
		db.Close()
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get loads the document stored under key into dest.
func (s *Store) Get(ctx context.Context, collection, key string, dest any) error {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return json.Unmarshal(data, dest)
}

// Put upserts a full document under key.
func (s *Store) Put(ctx context.Context, collection, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data, seq) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, key) DO UPDATE SET data = excluded.data`,
		collection, key, string(data), s.nextSeq(),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// Patch merges top-level fields into an existing document.
func (s *Store) Patch(ctx context.Context, collection, key string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin patch: %w", err)
	}
	defer tx.Rollback()

	var data []byte
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, key, err)
	}

	for k, v := range fields {
		if data, err = sjson.SetBytes(data, k, v); err != nil {
			return fmt.Errorf("patch field %q: %w", k, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND key = ?`,
		string(data), collection, key,
	); err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, key, err)
	}
	return tx.Commit()
}

// Append stores a document under a generated id and notifies matching
// subscribers outside any lock.
func (s *Store) Append(ctx context.Context, collection string, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id := uuid.NewString()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data, seq) VALUES (?, ?, ?, ?)`,
		collection, id, string(data), s.nextSeq(),
	); err != nil {
		return "", fmt.Errorf("append to %s: %w", collection, err)
	}

	s.mu.Lock()
	var notify []*subscriber
	for _, sub := range s.subs {
		if sub.collection == collection && store.Matches(data, sub.query) {
			notify = append(notify, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range notify {
		sub.onAdded(store.Doc{ID: id, Data: data})
	}
	return id, nil
}

// Query returns the documents matching q, sorted and capped per the query
// options. Predicates are evaluated in Go against the JSON rows.
func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Doc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, data FROM documents WHERE collection = ? ORDER BY seq`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if store.Matches(data, q) {
			docs = append(docs, store.Doc{ID: key, Data: data})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	store.SortDocs(docs, q)
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// Subscribe registers an added-document listener. Rows present at
// subscription time are never replayed.
func (s *Store) Subscribe(_ context.Context, collection string, q store.Query, onAdded func(store.Doc)) (store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscriber{collection: collection, query: q, onAdded: onAdded}
	return &subscription{store: s, id: id}, nil
}

func (s *Store) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

type subscription struct {
	store *Store
	id    int
	once  sync.Once
}

// Cancel removes the listener. Safe to call more than once.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s.id)
		s.store.mu.Unlock()
	})
}
