package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	appErrors "github.com/kerdl/ktmuscrap-sub000/pkg/errors"
)

type subscriber struct {
	key      string
	lastSeen time.Time
	ch       chan *compare.Notify
}

// HubService fans update notifications out to registered subscribers.
// A subscriber holds a buffered channel; when the buffer is full the
// oldest notification is dropped so a stalled consumer cannot block the
// update cycle. Subscribers expire unless they keep themselves alive.
type HubService struct {
	mu   sync.Mutex
	subs map[string]*subscriber

	ttl     time.Duration
	buffer  int
	metrics *Metrics
	log     *zap.Logger
}

// NewHubService builds a hub with the given subscriber TTL and per-
// subscriber buffer size.
func NewHubService(ttl time.Duration, buffer int, metrics *Metrics, log *zap.Logger) *HubService {
	if buffer < 1 {
		buffer = 16
	}
	return &HubService{
		subs:    map[string]*subscriber{},
		ttl:     ttl,
		buffer:  buffer,
		metrics: metrics,
		log:     log,
	}
}

// Subscribe registers a new subscriber and returns its key.
func (h *HubService) Subscribe() string {
	key := uuid.NewString()

	h.mu.Lock()
	h.subs[key] = &subscriber{
		key:      key,
		lastSeen: time.Now(),
		ch:       make(chan *compare.Notify, h.buffer),
	}
	count := len(h.subs)
	h.mu.Unlock()

	h.observeCount(count)
	h.log.Debug("subscriber registered", zap.String("key", key))
	return key
}

// KeepAlive refreshes a subscriber's expiry.
func (h *HubService) KeepAlive(key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[key]
	if !ok {
		return appErrors.ErrSubscriberNotFound
	}
	sub.lastSeen = time.Now()
	return nil
}

// Unsubscribe drops a subscriber.
func (h *HubService) Unsubscribe(key string) {
	h.mu.Lock()
	delete(h.subs, key)
	count := len(h.subs)
	h.mu.Unlock()

	h.observeCount(count)
}

// Poll blocks until a notification arrives for the subscriber or the
// context is done. Polling also counts as a keep-alive.
func (h *HubService) Poll(ctx context.Context, key string) (*compare.Notify, error) {
	h.mu.Lock()
	sub, ok := h.subs[key]
	if ok {
		sub.lastSeen = time.Now()
	}
	h.mu.Unlock()

	if !ok {
		return nil, appErrors.ErrSubscriberNotFound
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case n := <-sub.ch:
		return n, nil
	}
}

// Publish delivers the notification to every subscriber except the one
// that invoked the update, who already has the result in hand.
func (h *HubService) Publish(n *compare.Notify) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, sub := range h.subs {
		if n.Invoker != "" && key == string(n.Invoker) {
			continue
		}
		select {
		case sub.ch <- n:
		default:
			// Buffer full: drop the oldest so the newest survives.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- n:
			default:
			}
		}
	}

	if h.metrics != nil {
		h.metrics.Notifications.Inc()
	}
}

// RunJanitor evicts expired subscribers until the context is done.
func (h *HubService) RunJanitor(ctx context.Context) {
	interval := h.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.evictExpired()
		}
	}
}

func (h *HubService) evictExpired() {
	deadline := time.Now().Add(-h.ttl)

	h.mu.Lock()
	var evicted []string
	for key, sub := range h.subs {
		if sub.lastSeen.Before(deadline) {
			delete(h.subs, key)
			evicted = append(evicted, key)
		}
	}
	count := len(h.subs)
	h.mu.Unlock()

	h.observeCount(count)
	for _, key := range evicted {
		h.log.Debug("subscriber expired", zap.String("key", key))
	}
}

func (h *HubService) observeCount(count int) {
	if h.metrics != nil {
		h.metrics.Subscribers.Set(float64(count))
	}
}
