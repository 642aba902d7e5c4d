// Package whatsapp é o módulo de mensageria WhatsApp: mensagens, contatos,
// templates e contas business conectadas.
package whatsapp

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/KromaEnergia/crm-vendas/internal/messaging"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

// Store é a coleção em memória do módulo. O transporte injeta os eventos
// de status; os timers dele sobrevivem à view, então o store aplica as
// transições enquanto o processo viver.
type Store struct {
	mu        sync.Mutex
	messages  []Message
	contacts  []Contact
	templates []Template
	accounts  []Account
	activeID  string
	transport messaging.Transport
	now       func() time.Time
	newID     func() string
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

// SendMessage cria a mensagem em "sending", recalcula o lastMessage do
// contato e dispara a progressão de status no transporte.
func (s *Store) SendMessage(contactID, content string, typ MessageType, metadata map[string]string) Message {
	s.mu.Lock()
	msg := Message{
		ID:        s.newID(),
		ContactID: contactID,
		Content:   content,
		Timestamp: s.now(),
		Status:    messaging.StatusSending,
		Type:      typ,
		Metadata:  metadata,
	}
	s.messages = append(s.messages, msg)
	s.syncLastMessageLocked(msg, true)
	s.mu.Unlock()

	s.transport.Send(msg.ID)
	return msg
}

// SendTemplate renderiza o template substituindo {{variáveis}} e envia o
// resultado como mensagem de template.
func (s *Store) SendTemplate(templateID, contactID string, vars map[string]string) (Message, error) {
	s.mu.Lock()
	var tpl *Template
	for i := range s.templates {
		if s.templates[i].ID == templateID {
			tpl = &s.templates[i]
			break
		}
	}
	s.mu.Unlock()
	if tpl == nil {
		return Message{}, storage.ErrNotFound
	}
	if tpl.Status != TemplateApproved {
		return Message{}, validation.Errorf("templateId", "template %s ainda não foi aprovado", tpl.Name)
	}

	content := tpl.Content
	for key, value := range vars {
		content = strings.ReplaceAll(content, "{{"+key+"}}", value)
	}
	metadata := map[string]string{"templateId": templateID}
	return s.SendMessage(contactID, content, TypeTemplate, metadata), nil
}

// ApplyStatus aplica um evento do transporte. Status é monotônico na
// ordem sending < sent < delivered < read: um timer atrasado nunca
// rebaixa uma mensagem já lida. Id desconhecido é no-op.
func (s *Store) ApplyStatus(ev messaging.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == ev.MessageID {
			if ev.Status.Rank() <= s.messages[i].Status.Rank() {
				return
			}
			s.messages[i].Status = ev.Status
			s.syncLastMessageLocked(s.messages[i], false)
			return
		}
	}
}

// MarkRead é o evento explícito do leitor; o timer nunca seta read.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			if messaging.StatusRead.Rank() <= s.messages[i].Status.Rank() {
				return true
			}
			s.messages[i].Status = messaging.StatusRead
			s.syncLastMessageLocked(s.messages[i], false)
			return true
		}
	}
	return false
}

// syncLastMessageLocked mantém o ponteiro do contato coerente. force
// substitui sempre (novo envio); sem force só atualiza se o ponteiro já
// aponta para esta mensagem (mudança de status). Chamar com o lock tomado.
func (s *Store) syncLastMessageLocked(msg Message, force bool) {
	for i := range s.contacts {
		if s.contacts[i].ID == msg.ContactID {
			if force || (s.contacts[i].LastMessage != nil && s.contacts[i].LastMessage.ID == msg.ID) {
				m := msg
				s.contacts[i].LastMessage = &m
			}
			return
		}
	}
}

func (s *Store) Messages(contactID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.messages {
		if contactID == "" || m.ContactID == contactID {
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

func (s *Store) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Contact, len(s.contacts))
	copy(cp, s.contacts)
	return cp
}

func (s *Store) Templates() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Template, len(s.templates))
	copy(cp, s.templates)
	return cp
}

// CreateTemplate registra o template; nasce pendente de aprovação.
func (s *Store) CreateTemplate(name, content string, variables []string) Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Template{
		ID:        s.newID(),
		Name:      name,
		Content:   content,
		Variables: append([]string(nil), variables...),
		Status:    TemplatePending,
	}
	s.templates = append(s.templates, t)
	return t
}

// ConnectAccount conecta uma conta business e a torna ativa.
func (s *Store) ConnectAccount(phoneNumber string) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := Account{
		ID:          s.newID(),
		PhoneNumber: phoneNumber,
		Name:        "Business Account " + phoneNumber,
		Status:      AccountConnected,
	}
	s.accounts = append(s.accounts, acc)
	s.activeID = acc.ID
	return acc
}

// DisconnectAccount desconecta a conta; id inexistente é no-op.
func (s *Store) DisconnectAccount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Status = AccountDisconnected
			if s.activeID == id {
				s.activeID = ""
			}
			return
		}
	}
}

func (s *Store) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Account, len(s.accounts))
	copy(cp, s.accounts)
	return cp
}

// ActiveAccount devolve a conta ativa, se houver conexão.
func (s *Store) ActiveAccount() (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == s.activeID {
			return a, true
		}
	}
	return Account{}, false
}

// Seed injeta o estado inicial (dados de demonstração).
func (s *Store) Seed(contacts []Contact, templates []Template, messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append([]Contact(nil), contacts...)
	s.templates = append([]Template(nil), templates...)
	s.messages = append([]Message(nil), messages...)
}
