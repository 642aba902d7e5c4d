package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Hub transmite notificações para os clientes conectados via WebSocket.
// O front assina GET /notifications/stream e renderiza cada evento como
// toast. Cliente lento perde eventos (buffer cheio descarta).
type Hub struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[chan Notification]struct{}{}}
}

func (h *Hub) Notify(kind Kind, title, message string) {
	n := Notification{Kind: kind, Title: title, Message: message, At: time.Now()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *Hub) subscribe() chan Notification {
	ch := make(chan Notification, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Notification) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// ServeHTTP aceita a conexão WebSocket e repassa notificações até o
// cliente desconectar.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "encerrado")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case n := <-ch:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, n)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
