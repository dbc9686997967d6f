package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
	appErrors "github.com/kerdl/ktmuscrap-sub000/pkg/errors"
	"github.com/kerdl/ktmuscrap-sub000/pkg/response"
)

type scheduleReader interface {
	Groups() *models.Page
	Teachers() *models.Page
	LastNotify() *compare.Notify
}

// ScheduleHandler serves the current schedule snapshots.
type ScheduleHandler struct {
	snapshots scheduleReader
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(snapshots scheduleReader) *ScheduleHandler {
	return &ScheduleHandler{snapshots: snapshots}
}

// Groups returns the current group-perspective page.
func (h *ScheduleHandler) Groups(c *gin.Context) {
	page := h.snapshots.Groups()
	if page == nil {
		response.Error(c, appErrors.ErrNoSnapshot)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Teachers returns the current teacher-perspective page.
func (h *ScheduleHandler) Teachers(c *gin.Context) {
	page := h.snapshots.Teachers()
	if page == nil {
		response.Error(c, appErrors.ErrNoSnapshot)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// LastUpdate returns the notification of the last cycle that changed
// anything.
func (h *ScheduleHandler) LastUpdate(c *gin.Context) {
	notify := h.snapshots.LastNotify()
	if notify == nil {
		response.Error(c, appErrors.ErrNoUpdates)
		return
	}
	response.JSON(c, http.StatusOK, notify)
}
