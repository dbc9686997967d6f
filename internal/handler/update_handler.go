package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	appErrors "github.com/kerdl/ktmuscrap-sub000/pkg/errors"
	"github.com/kerdl/ktmuscrap-sub000/pkg/response"
)

type updateTrigger interface {
	Trigger(ctx context.Context, invoker compare.Invoker) (*compare.Notify, error)
}

// UpdateHandler exposes the manual update trigger.
type UpdateHandler struct {
	updates  updateTrigger
	validate *validator.Validate
}

// NewUpdateHandler constructs the handler.
func NewUpdateHandler(updates updateTrigger, validate *validator.Validate) *UpdateHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &UpdateHandler{updates: updates, validate: validate}
}

// TriggerRequest optionally names the subscriber invoking the update so
// the hub skips notifying it.
type TriggerRequest struct {
	Invoker string `json:"invoker" validate:"omitempty,uuid4"`
}

// Trigger runs an update cycle and returns its notification. The caller
// gets the diff even when no other subscriber will hear about it.
func (h *UpdateHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invoker must be a subscriber key"))
		return
	}

	notify, err := h.updates.Trigger(c.Request.Context(), compare.Invoker(req.Invoker))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, "update cycle failed"))
		return
	}

	response.JSON(c, http.StatusOK, notify)
}
