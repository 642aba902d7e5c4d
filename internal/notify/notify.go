package notify

import (
	"log"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification é o toast exibido no front. Entrega é melhor esforço,
// sem retorno e sem garantia além da exibição em tela.
type Notification struct {
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(kind Kind, title, message string)
}

// Multi repassa cada notificação para todos os destinos.
type Multi []Notifier

func (m Multi) Notify(kind Kind, title, message string) {
	for _, n := range m {
		n.Notify(kind, title, message)
	}
}

// Log escreve as notificações no log do processo.
type Log struct{}

func (Log) Notify(kind Kind, title, message string) {
	log.Printf("[%s] %s: %s", kind, title, message)
}

// Memory acumula as notificações emitidas. Usado nos testes.
type Memory struct {
	mu   sync.Mutex
	sent []Notification
}

func (m *Memory) Notify(kind Kind, title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Notification{Kind: kind, Title: title, Message: message, At: time.Now()})
}

func (m *Memory) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Notification, len(m.sent))
	copy(cp, m.sent)
	return cp
}
