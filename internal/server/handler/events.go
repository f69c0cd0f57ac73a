package handler

import (
	"io"

	"flowline/internal/common"
	"flowline/internal/events"
	"flowline/internal/server/dao"
	"flowline/internal/server/middleware"

	"github.com/gin-gonic/gin"
)

// StreamEvents relays a workflow's published run events to the client as
// server-sent events, one SSE message per published envelope.
func StreamEvents(c *gin.Context) {
	workflowID := c.Param("id")
	if _, err := dao.NewWorkflowDao().GetByIDForUser(c, workflowID, middleware.UserID(c)); err != nil {
		common.Error(c, err)
		return
	}

	sub := redisClient.Subscribe(c, events.Channel(workflowID))
	defer sub.Close()
	ch := sub.Channel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
