package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	"github.com/kerdl/ktmuscrap-sub000/pkg/response"
)

type subscriberHub interface {
	Subscribe() string
	KeepAlive(key string) error
	Unsubscribe(key string)
	Poll(ctx context.Context, key string) (*compare.Notify, error)
}

// SubscriberHandler manages notification subscriptions over HTTP.
type SubscriberHandler struct {
	hub subscriberHub
}

// NewSubscriberHandler constructs the handler.
func NewSubscriberHandler(hub subscriberHub) *SubscriberHandler {
	return &SubscriberHandler{hub: hub}
}

// Subscribe registers a subscriber and returns its key.
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	key := h.hub.Subscribe()
	response.Created(c, gin.H{"key": key})
}

// KeepAlive refreshes a subscriber's expiry.
func (h *SubscriberHandler) KeepAlive(c *gin.Context) {
	if err := h.hub.KeepAlive(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unsubscribe drops a subscriber.
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	h.hub.Unsubscribe(c.Param("key"))
	response.NoContent(c)
}

// Poll long-polls for the next notification. The request context bounds
// the wait; a client-side timeout simply yields 204 and the client polls
// again.
func (h *SubscriberHandler) Poll(c *gin.Context) {
	notify, err := h.hub.Poll(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			response.NoContent(c)
			return
		}
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notify)
}
