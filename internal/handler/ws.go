package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens via the token query param in AuthMiddleware; origin
	// checks add nothing on top of that here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// GET /ws?token=...&last_event_id=N
//
// One socket per call; a user may hold several. Missed events since
// last_event_id are replayed from the redis buffer before live delivery
// starts.
func (h *WSHandler) Serve(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed for user %d: %v", userID, err)
		return
	}

	events, unsub := h.hub.Subscribe(userID)
	defer unsub()
	defer conn.Close()

	lastEventID := c.Query("last_event_id")
	if lastEventID == "" {
		lastEventID = c.GetHeader("Last-Event-ID")
	}
	if from := ws.ParseLastEventID(lastEventID); from > 0 {
		missed, rerr := h.hub.ReplayFrom(userID, from)
		if rerr == nil {
			for _, ev := range missed {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if werr := conn.WriteJSON(ev); werr != nil {
					return
				}
			}
		}
	}

	// Reader: we never expect client frames beyond control messages, but
	// the read loop is what notices a dropped peer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if werr := conn.WriteJSON(ev); werr != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if werr := conn.WriteMessage(websocket.PingMessage, nil); werr != nil {
				return
			}
		case <-done:
			return
		}
	}
}
