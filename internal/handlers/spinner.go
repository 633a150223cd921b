package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nithinkp/kurihub/internal/spinner"
)

// SpinnerHandler serves the live spin broadcast channel over SSE.
type SpinnerHandler struct {
	hub *spinner.Hub
}

// NewSpinnerHandler creates a spinner handler over the given hub.
func NewSpinnerHandler(hub *spinner.Hub) *SpinnerHandler {
	return &SpinnerHandler{hub: hub}
}

// Stream subscribes the client to spin events for one scheme and relays
// them as server-sent events until the client disconnects.
func (h *SpinnerHandler) Stream(c *gin.Context) {
	events, cancel := h.hub.Subscribe(c.Param("id"))
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type spinRequest struct {
	Easing  string   `json:"easing"`
	Speed   *float64 `json:"speed"`
	Rotates *float64 `json:"rotates"`
	Winner  string   `json:"winner"`
	AdminID string   `json:"adminId"`
}

// Spin publishes a spin animation to every client watching the scheme.
// Fire-and-forget: delivery is best-effort with no replay.
func (h *SpinnerHandler) Spin(c *gin.Context) {
	var req spinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}
	if req.Easing == "" || req.Speed == nil || req.Rotates == nil || req.Winner == "" || req.AdminID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "easing, speed, rotates, winner, and adminId are required", "code": "Validation"})
		return
	}

	h.hub.Publish(c.Param("id"), spinner.Event{
		Easing:    req.Easing,
		Speed:     *req.Speed,
		Rotates:   *req.Rotates,
		Winner:    req.Winner,
		AdminID:   req.AdminID,
		Timestamp: time.Now().UnixMilli(),
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Spin broadcasted"})
}
