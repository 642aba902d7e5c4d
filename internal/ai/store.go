// Package ai é o assistente do produto. Sem integração real de modelo:
// as respostas são simuladas com latência, como no protótipo.
package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var cannedResponses = []string{
	"Entendi sua solicitação. Posso ajudar com isso!",
	"Baseado nas informações fornecidas, sugiro...",
	"Vou analisar os dados e retornar com uma recomendação.",
	"Isso é interessante! Deixa eu te explicar melhor...",
}

// Store guarda a conversa com o assistente e a flag de processamento.
type Store struct {
	mu         sync.Mutex
	messages   []Message
	processing bool
	delay      time.Duration
	pick       func() string
}

type StoreOption func(*Store)

// WithDelay ajusta a latência simulada da resposta.
func WithDelay(d time.Duration) StoreOption {
	return func(s *Store) { s.delay = d }
}

// WithResponder injeta o gerador de resposta (testes).
func WithResponder(pick func() string) StoreOption {
	return func(s *Store) { s.pick = pick }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		delay: time.Second,
		pick: func() string {
			return cannedResponses[rand.Intn(len(cannedResponses))]
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage registra a mensagem do usuário, simula o processamento e
// devolve a resposta do assistente.
func (s *Store) SendMessage(ctx context.Context, content string) (Message, error) {
	s.mu.Lock()
	s.messages = append(s.messages, Message{Role: RoleUser, Content: content})
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-t.C:
		}
	}

	reply := Message{Role: RoleAssistant, Content: s.pick()}
	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	return reply, nil
}

func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Message, len(s.messages))
	copy(cp, s.messages)
	return cp
}

func (s *Store) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}
