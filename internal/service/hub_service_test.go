package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	appErrors "github.com/kerdl/ktmuscrap-sub000/pkg/errors"
)

func newTestHub(ttl time.Duration) *HubService {
	return NewHubService(ttl, 4, nil, zap.NewNop())
}

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := newTestHub(time.Minute)

	first := hub.Subscribe()
	second := hub.Subscribe()

	notify := &compare.Notify{Nonce: "n1"}
	hub.Publish(notify)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := hub.Poll(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "n1", got.Nonce)

	got, err = hub.Poll(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "n1", got.Nonce)
}

func TestHubPublishSkipsInvoker(t *testing.T) {
	hub := newTestHub(time.Minute)

	invoker := hub.Subscribe()
	other := hub.Subscribe()

	hub.Publish(&compare.Notify{Nonce: "n1", Invoker: compare.Invoker(invoker)})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := hub.Poll(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "n1", got.Nonce)

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer shortCancel()

	_, err = hub.Poll(shortCtx, invoker)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHubUnknownSubscriber(t *testing.T) {
	hub := newTestHub(time.Minute)

	assert.ErrorIs(t, hub.KeepAlive("missing"), appErrors.ErrSubscriberNotFound)

	_, err := hub.Poll(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrSubscriberNotFound)
}

func TestHubEvictsExpired(t *testing.T) {
	hub := newTestHub(30 * time.Millisecond)

	stale := hub.Subscribe()
	fresh := hub.Subscribe()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, hub.KeepAlive(fresh))

	hub.evictExpired()

	assert.ErrorIs(t, hub.KeepAlive(stale), appErrors.ErrSubscriberNotFound)
	assert.NoError(t, hub.KeepAlive(fresh))
}

func TestHubFullBufferDropsOldest(t *testing.T) {
	hub := NewHubService(time.Minute, 1, nil, zap.NewNop())

	key := hub.Subscribe()
	hub.Publish(&compare.Notify{Nonce: "old"})
	hub.Publish(&compare.Notify{Nonce: "new"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := hub.Poll(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Nonce)
}
