// Package ws provides the WebSocket live tail for execution timelines.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/promptlens/promptlens/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Tail streams newly-normalized timeline messages to a dashboard
// client while an execution is still producing events.
type Tail struct {
	service      *service.Service
	pollInterval time.Duration
	upgrader     websocket.Upgrader
}

// NewTail creates a new tail handler polling the upstream at the given
// interval.
func NewTail(svc *service.Service, pollInterval time.Duration) *Tail {
	return &Tail{
		service:      svc,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The dashboard runs on its own origin; cross-origin
				// policy is enforced by the caller's auth layer.
				return true
			},
		},
	}
}

// RegisterRoutes registers the tail route with the echo server.
func (t *Tail) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/projects/:project_id/executions/:trace_id/tail", t.Handle)
}

// Handle upgrades the connection and streams messages until the client
// disconnects. Each poll fetches the normalized timeline and pushes
// only the messages beyond the last index already delivered, so the
// client sees the same strictly-increasing msg_index sequence the
// timeline endpoint serves.
func (t *Tail) Handle(c echo.Context) error {
	projectID := c.Param("project_id")
	traceID := c.Param("trace_id")

	conn, err := t.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	go t.readPump(conn, done)

	ctx := c.Request().Context()
	poll := time.NewTicker(t.pollInterval)
	defer poll.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	nextIndex := 0
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-poll.C:
			messages, err := t.service.GetTimeline(ctx, projectID, traceID)
			if err != nil {
				log.Printf("tail poll failed for %s: %v", traceID, err)
				continue
			}
			for _, msg := range messages {
				if msg.MsgIndex < nextIndex {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					return nil
				}
				nextIndex = msg.MsgIndex + 1
			}
		}
	}
}

// readPump drains client frames so pongs are processed, and signals
// when the peer goes away.
func (t *Tail) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
