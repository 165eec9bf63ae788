package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storyboard_automation/models"
	"storyboard_automation/tasks"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The HTTP routes are already open to any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// streamProgress upgrades the connection to a WebSocket and relays the job's
// Redis progress channel to the client. The subscription starts before the
// current job state is sent, so no event between the two is lost.
func (h *Handler) streamProgress(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Storyboard ID must be a valid object ID",
		})
		return
	}

	var job models.StoryboardJob
	if err := h.jobs().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&job); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Storyboard not found",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for job %s: %v", id.Hex(), err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.Redis.Subscribe(ctx, tasks.ProgressChannel(id.Hex()))
	defer sub.Close()

	// Snapshot first so a late subscriber sees where the job already is.
	snapshot := tasks.ProgressEvent{
		JobID:       id.Hex(),
		Status:      job.Status,
		Stage:       "snapshot",
		SceneNumber: job.CurrentScene,
		TotalScenes: job.SceneCount,
		At:          time.Now(),
	}
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}

	// Terminal jobs have nothing further to stream.
	if job.Status == models.StatusCompleted || job.Status == models.StatusFailed {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	}

	// Drain client frames so close handshakes and pongs are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
