package messaging

import (
	"sync"
	"time"
)

// Manual é o transporte de testes: não agenda nada, os eventos de status
// são empurrados explicitamente com Push.
type Manual struct {
	mu   sync.Mutex
	subs []func(Event)
	sent []string
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Send(messageID string) {
	m.mu.Lock()
	m.sent = append(m.sent, messageID)
	m.mu.Unlock()
}

func (m *Manual) Subscribe(fn func(Event)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Push entrega um evento de status a todos os assinantes.
func (m *Manual) Push(messageID string, status Status) {
	m.mu.Lock()
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	ev := Event{MessageID: messageID, Status: status, At: time.Now()}
	for _, fn := range subs {
		fn(ev)
	}
}

// SentIDs lista as mensagens cujo envio foi iniciado.
func (m *Manual) SentIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.sent))
	copy(cp, m.sent)
	return cp
}
