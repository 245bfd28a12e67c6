package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EventHandler streams order status changes over Server-Sent Events.
type EventHandler struct {
	facade    EventFacade
	heartbeat time.Duration
}

// NewEventHandler constructs EventHandler. A non-positive heartbeat disables
// keep-alive pings.
func NewEventHandler(facade EventFacade, heartbeat time.Duration) *EventHandler {
	return &EventHandler{facade: facade, heartbeat: heartbeat}
}

// Stream handles GET /api/orders/:id/events. The stream ends after a
// terminal status or when the client disconnects.
func (h *EventHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, cancel, err := h.facade.SubscribeOrder(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	var ping <-chan time.Time
	if h.heartbeat > 0 {
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		ping = ticker.C
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-ping:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("status", event)
			return !event.Status.Terminal()
		}
	})
}
