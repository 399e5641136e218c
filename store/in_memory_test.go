package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteDoc struct {
	Owner     string    `json:"owner"`
	Text      string    `json:"text"`
	Score     float64   `json:"score"`
	Done      bool      `json:"done"`
	Tags      []string  `json:"tags,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func TestInMemoryStore_PutGetPatch(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Put(ctx, "notes", "n-1", noteDoc{Owner: "u-1", Text: "first", Score: 1}))

	var got noteDoc
	require.NoError(t, s.Get(ctx, "notes", "n-1", &got))
	assert.Equal(t, "first", got.Text)

	require.NoError(t, s.Patch(ctx, "notes", "n-1", map[string]any{"text": "patched", "done": true}))
	require.NoError(t, s.Get(ctx, "notes", "n-1", &got))
	assert.Equal(t, "patched", got.Text)
	assert.True(t, got.Done)
	assert.Equal(t, "u-1", got.Owner) // untouched fields survive the patch

	assert.ErrorIs(t, s.Get(ctx, "notes", "missing", &got), ErrNotFound)
	assert.ErrorIs(t, s.Patch(ctx, "notes", "missing", map[string]any{"done": true}), ErrNotFound)
}

func TestInMemoryStore_QueryPredicates(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	docs := []noteDoc{
		{Owner: "u-1", Text: "a", Score: 10, Timestamp: now.Add(-2 * time.Hour), Tags: []string{"rice", "water"}},
		{Owner: "u-1", Text: "b", Score: 20, Done: true, Timestamp: now.Add(-time.Hour), Tags: []string{"wheat"}},
		{Owner: "u-2", Text: "c", Score: 30, Timestamp: now, Tags: []string{"rice"}},
	}
	for _, d := range docs {
		_, err := s.Append(ctx, "notes", d)
		require.NoError(t, err)
	}

	t.Run("equality on string and bool", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{Predicates: []Predicate{
			Where("owner", OpEqual, "u-1"),
			Where("done", OpEqual, false),
		}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		var d noteDoc
		require.NoError(t, got[0].Decode(&d))
		assert.Equal(t, "a", d.Text)
	})

	t.Run("numeric range", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{Predicates: []Predicate{
			Where("score", OpGreaterOrEqual, 15),
			Where("score", OpLessOrEqual, 25),
		}})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("time upper bound", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{Predicates: []Predicate{
			Where("timestamp", OpLessOrEqual, now.Add(-30*time.Minute)),
		}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("array contains any", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{Predicates: []Predicate{
			Where("tags", OpArrayContainsAny, []string{"rice", "maize"}),
		}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("order and limit", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{OrderBy: "timestamp", Descending: true, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		var d noteDoc
		require.NoError(t, got[0].Decode(&d))
		assert.Equal(t, "c", d.Text)
	})

	t.Run("ascending order", func(t *testing.T) {
		got, err := s.Query(ctx, "notes", Query{OrderBy: "score"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		var first, last noteDoc
		require.NoError(t, got[0].Decode(&first))
		require.NoError(t, got[2].Decode(&last))
		assert.Equal(t, "a", first.Text)
		assert.Equal(t, "c", last.Text)
	})
}

func TestInMemoryStore_UnparseableTimeFieldDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Append(ctx, "reminders", map[string]any{"task": "irrigate", "due": now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = s.Append(ctx, "reminders", map[string]any{"task": "corrupt", "due": "03/15/2026 6am"})
	require.NoError(t, err)

	// A due date that does not parse must not satisfy the bound in either
	// direction.
	got, err := s.Query(ctx, "reminders", Query{Predicates: []Predicate{
		Where("due", OpLessOrEqual, now),
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	var d struct {
		Task string `json:"task"`
	}
	require.NoError(t, got[0].Decode(&d))
	assert.Equal(t, "irrigate", d.Task)

	got, err = s.Query(ctx, "reminders", Query{Predicates: []Predicate{
		Where("due", OpGreaterOrEqual, now.Add(-2*time.Hour)),
	}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestInMemoryStore_SubscribeDeliversOnlyNewMatches(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	_, err := s.Append(ctx, "notes", noteDoc{Owner: "u-1", Text: "before"})
	require.NoError(t, err)

	var seen []string
	sub, err := s.Subscribe(ctx, "notes", Query{Predicates: []Predicate{
		Where("owner", OpEqual, "u-1"),
	}}, func(d Doc) {
		var n noteDoc
		require.NoError(t, d.Decode(&n))
		seen = append(seen, n.Text)
	})
	require.NoError(t, err)

	_, err = s.Append(ctx, "notes", noteDoc{Owner: "u-1", Text: "match"})
	require.NoError(t, err)
	_, err = s.Append(ctx, "notes", noteDoc{Owner: "u-2", Text: "other owner"})
	require.NoError(t, err)

	assert.Equal(t, []string{"match"}, seen)

	sub.Cancel()
	sub.Cancel() // idempotent

	_, err = s.Append(ctx, "notes", noteDoc{Owner: "u-1", Text: "after cancel"})
	require.NoError(t, err)
	assert.Equal(t, []string{"match"}, seen)
}
