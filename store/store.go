package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get and Patch when no document exists under the
// given collection and key.
var ErrNotFound = errors.New("store: document not found")

// Op enumerates the predicate operators supported by Query and Subscribe.
type Op string

// Supported predicate operators.
const (
	OpEqual            Op = "=="
	OpLessOrEqual      Op = "<="
	OpGreaterOrEqual   Op = ">="
	OpArrayContainsAny Op = "array-contains-any"
)

// Predicate is one field condition of a query. Field addresses a top-level
// JSON field of the stored document.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Where constructs a predicate.
func Where(field string, op Op, value any) Predicate {
	return Predicate{Field: field, Op: op, Value: value}
}

// Query bundles predicates with optional ordering and a result cap.
type Query struct {
	Predicates []Predicate
	OrderBy    string
	Descending bool
	Limit      int // 0 means unlimited
}

// Doc is one stored document together with its key (explicit or generated).
type Doc struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into dest.
func (d Doc) Decode(dest any) error { return json.Unmarshal(d.Data, dest) }

// Subscription is a scoped listener registration. Cancel is idempotent and
// must be called on every exit path of the owning component.
type Subscription interface {
	Cancel()
}

// Store is the persistence capability handed to handlers, the scheduler and
// the message listener. Implementations must be safe for concurrent use.
type Store interface {
	// Get loads the document stored under key into dest.
	Get(ctx context.Context, collection, key string, dest any) error

	// Put upserts a full document under key.
	Put(ctx context.Context, collection, key string, doc any) error

	// Patch merges the given top-level fields into an existing document.
	Patch(ctx context.Context, collection, key string, fields map[string]any) error

	// Append stores a document under a generated id and returns that id.
	Append(ctx context.Context, collection string, doc any) (string, error)

	// Query returns the documents matching q.
	Query(ctx context.Context, collection string, q Query) ([]Doc, error)

	// Subscribe invokes onAdded for every document appended to the
	// collection after this call that matches the query predicates.
	// Documents already present at subscription time are never delivered.
	Subscribe(ctx context.Context, collection string, q Query, onAdded func(Doc)) (Subscription, error)
}
