package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/annel0/blockworld/internal/eventbus"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventQueueSize   = 256
	eventWriteWait   = 5 * time.Second
	eventReadTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // инспектор для локальной отладки
}

// handleEvents отдает поток событий мира сессии через WebSocket.
// Query-параметр types ограничивает типы событий (через запятую).
// Клиент может только читать; любое входящее сообщение кроме close игнорируется.
func (s *Server) handleEvents(c *gin.Context) {
	if s.events == nil {
		respond(c, http.StatusNotFound, "Шина событий не подключена", nil)
		return
	}

	filter := eventbus.Filter{Sources: []string{s.session.ID}}
	if types := c.Query("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Types = append(filter.Types, t)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подписка до рукопожатия: события после ответа 101 не теряются
	out := make(chan []byte, eventQueueSize)
	sub, err := s.events.Subscribe(ctx, filter, func(_ context.Context, ev *eventbus.Envelope) {
		data, err := json.Marshal(eventView(ev))
		if err != nil {
			return
		}
		select {
		case out <- data:
		default:
			// Медленный клиент теряет события
		}
	})
	if err != nil {
		respond(c, http.StatusServiceUnavailable, err.Error(), nil)
		return
	}
	defer sub.Unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Writer goroutine
	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Reader loop: ждём закрытия соединения клиентом
	for {
		_ = conn.SetReadDeadline(time.Now().Add(eventReadTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}
