package whatsapp

import (
	"time"

	"github.com/KromaEnergia/crm-vendas/internal/messaging"
)

type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeFile     MessageType = "file"
	TypeTemplate MessageType = "template"
)

type Message struct {
	ID        string            `json:"id"`
	ContactID string            `json:"contactId"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Status    messaging.Status  `json:"status"`
	Type      MessageType       `json:"type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Contact carrega LastMessage desnormalizado: sempre a mensagem mais
// recente trocada com o contato, recalculado a cada envio.
type Contact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	ProfilePic  string   `json:"profilePic,omitempty"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// Status de aprovação de template na plataforma.
type TemplateStatus string

const (
	TemplatePending  TemplateStatus = "pending"
	TemplateApproved TemplateStatus = "approved"
	TemplateRejected TemplateStatus = "rejected"
)

// Template é uma mensagem pré-aprovada com variáveis {{nome}}.
type Template struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Content   string         `json:"content"`
	Variables []string       `json:"variables"`
	Status    TemplateStatus `json:"status"`
}

type AccountStatus string

const (
	AccountConnected    AccountStatus = "connected"
	AccountDisconnected AccountStatus = "disconnected"
)

type Account struct {
	ID          string        `json:"id"`
	PhoneNumber string        `json:"phoneNumber"`
	Name        string        `json:"name"`
	Status      AccountStatus `json:"status"`
}
