// Package chat é o módulo de conversas internas: mensagens, conversas e o
// ponteiro desnormalizado lastMessage de cada conversa.
package chat

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/KromaEnergia/crm-vendas/internal/messaging"
)

type MessageType string

const (
	TypeText   MessageType = "text"
	TypeFile   MessageType = "file"
	TypeSystem MessageType = "system"
)

type Message struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversationId"`
	SenderID       string           `json:"senderId"`
	Content        string           `json:"content"`
	Timestamp      time.Time        `json:"timestamp"`
	Status         messaging.Status `json:"status"`
	Type           MessageType      `json:"type"`
}

// Conversation carrega LastMessage desnormalizado: sempre igual à mensagem
// mais recente da conversa, recalculado a cada envio.
type Conversation struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	LastMessage  *Message `json:"lastMessage,omitempty"`
}

// Store é a coleção em memória do chat. Os timers de entrega pertencem ao
// transporte e continuam após a view desmontar; o store é quem aplica os
// eventos de status enquanto viver.
type Store struct {
	mu            sync.Mutex
	messages      []Message
	conversations []Conversation
	transport     messaging.Transport
	now           func() time.Time
	newID         func() string
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDs(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

func NewStore(transport messaging.Transport, opts ...StoreOption) *Store {
	s := &Store{
		transport: transport,
		now:       time.Now,
		newID:     func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	transport.Subscribe(s.ApplyStatus)
	return s
}

// SendMessage cria a mensagem em "sending", atualiza o lastMessage da
// conversa e inicia a progressão de status no transporte. Envio nunca
// falha neste desenho simulado.
func (s *Store) SendMessage(conversationID, senderID, content string, typ MessageType) Message {
	s.mu.Lock()
	msg := Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Timestamp:      s.now(),
		Status:         messaging.StatusSending,
		Type:           typ,
	}
	s.messages = append(s.messages, msg)
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			m := msg
			s.conversations[i].LastMessage = &m
			break
		}
	}
	s.mu.Unlock()

	s.transport.Send(msg.ID)
	return msg
}

// ApplyStatus aplica um evento de status vindo do transporte. O status é
// monotônico: eventos atrasados com rank menor são descartados. Id
// desconhecido é no-op.
func (s *Store) ApplyStatus(ev messaging.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == ev.MessageID {
			if ev.Status.Rank() <= s.messages[i].Status.Rank() {
				return
			}
			s.messages[i].Status = ev.Status
			s.syncLastMessage(s.messages[i])
			return
		}
	}
}

// MarkRead marca a mensagem como lida — só o leitor faz isso, nunca o
// timer do transporte.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			if messaging.StatusRead.Rank() <= s.messages[i].Status.Rank() {
				return true
			}
			s.messages[i].Status = messaging.StatusRead
			s.syncLastMessage(s.messages[i])
			return true
		}
	}
	return false
}

// syncLastMessage mantém o ponteiro desnormalizado coerente quando a
// própria lastMessage muda de status. Chamar com o lock tomado.
func (s *Store) syncLastMessage(msg Message) {
	for i := range s.conversations {
		if s.conversations[i].ID == msg.ConversationID {
			if s.conversations[i].LastMessage != nil && s.conversations[i].LastMessage.ID == msg.ID {
				m := msg
				s.conversations[i].LastMessage = &m
			}
			return
		}
	}
}

func (s *Store) CreateConversation(participants []string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := Conversation{ID: s.newID(), Participants: append([]string(nil), participants...)}
	s.conversations = append(s.conversations, conv)
	return conv
}

func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Conversation, len(s.conversations))
	copy(cp, s.conversations)
	return cp
}

// Messages devolve as mensagens da conversa em ordem de envio.
func (s *Store) Messages(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) Message(id string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// Seed injeta o estado inicial (dados de demonstração).
func (s *Store) Seed(conversations []Conversation, messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append([]Conversation(nil), conversations...)
	s.messages = append([]Message(nil), messages...)
}
