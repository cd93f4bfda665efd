package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/askcoin-app/backend/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Subscribe streams change events for one topic as server-sent events
// until the client disconnects. Topics mirror the REST paths:
// "questions", "questions/42", "questions/42/answers".
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	topic := strings.Trim(c.Param("topic"), "/")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}

	events, cancel := h.hub.Subscribe(topic)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case e, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(e.Name, e)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
