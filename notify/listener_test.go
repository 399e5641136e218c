package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/store"
)

func newTestListener(t *testing.T, st store.Store, ann Announcer) *MessageListener {
	t.Helper()
	l, err := NewMessageListener(ListenerConfig{
		Store:     st,
		Announcer: ann,
		OwnerID:   "farmer-1",
	})
	require.NoError(t, err)
	return l
}

func TestMessageListener_AnnouncesOnlyNewMessages(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	// Present before Start; must never be announced.
	_, err := st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "farmer-2",
		RecipientID: "farmer-1",
		Content:     "old news",
		Timestamp:   now.Add(-time.Hour),
	})
	require.NoError(t, err)

	ann := &fakeAnnouncer{}
	l := newTestListener(t, st, ann)
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	assert.Empty(t, ann.announced())

	_, err = st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "farmer-2",
		RecipientID: "farmer-1",
		Content:     "rain expected tomorrow",
		Timestamp:   now,
	})
	require.NoError(t, err)

	texts := ann.announced()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "farmer-2")
	assert.Contains(t, texts[0], "rain expected tomorrow")

	history := l.History()
	require.Len(t, history, 1)
	assert.Equal(t, "rain expected tomorrow", history[0].Content)
}

func TestMessageListener_IgnoresOtherRecipientsAndAIMessages(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	now := time.Now()

	ann := &fakeAnnouncer{}
	l := newTestListener(t, st, ann)
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	_, err := st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "farmer-1",
		RecipientID: "farmer-3",
		Content:     "for someone else",
		Timestamp:   now,
	})
	require.NoError(t, err)

	_, err = st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "assistant",
		RecipientID: "farmer-1",
		Content:     "synthetic turn",
		Timestamp:   now,
		IsAIMessage: true,
	})
	require.NoError(t, err)

	assert.Empty(t, ann.announced())
	assert.Empty(t, l.History())
}

func TestMessageListener_SurvivesAnnounceFailure(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()

	ann := &fakeAnnouncer{fail: true}
	l := newTestListener(t, st, ann)
	require.NoError(t, l.Start(ctx))
	defer l.Stop()

	_, err := st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "farmer-2",
		RecipientID: "farmer-1",
		Content:     "missed call",
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)

	// The message is retained even though the announcement failed.
	require.Len(t, l.History(), 1)

	// After Stop no further messages are delivered.
	l.Stop()
	_, err = st.Append(ctx, core.CollectionMessages, core.Message{
		SenderID:    "farmer-2",
		RecipientID: "farmer-1",
		Content:     "after stop",
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)
	assert.Len(t, l.History(), 1)
}

func TestMessageListener_DoubleStartFails(t *testing.T) {
	st := store.NewInMemoryStore()
	l := newTestListener(t, st, &fakeAnnouncer{})

	require.NoError(t, l.Start(context.Background()))
	assert.Error(t, l.Start(context.Background()))
	l.Stop()
	l.Stop() // idempotent
}
