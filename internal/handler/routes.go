package handler

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every API route onto the group.
func Register(r *gin.RouterGroup, schedule *ScheduleHandler, update *UpdateHandler, subscribers *SubscriberHandler) {
	r.GET("/schedule/groups", schedule.Groups)
	r.GET("/schedule/teachers", schedule.Teachers)
	r.GET("/schedule/updates/last", schedule.LastUpdate)

	r.POST("/schedule/update", update.Trigger)

	r.POST("/subscribers", subscribers.Subscribe)
	r.POST("/subscribers/:key/keepalive", subscribers.KeepAlive)
	r.GET("/subscribers/:key/poll", subscribers.Poll)
	r.DELETE("/subscribers/:key", subscribers.Unsubscribe)
}
