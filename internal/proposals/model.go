package proposals

import (
	"reflect"
	"time"
)

// Status do ciclo de vida da proposta. As transições são de mão única:
// draft -> sent -> accepted | rejected. Só o rascunho é editável.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// CanTransition informa se a mudança de status é permitida.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusDraft:
		return to == StatusSent
	case StatusSent:
		return to == StatusAccepted || to == StatusRejected
	default:
		return false
	}
}

// Tipos de campo dinâmico de template.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCurrency = "currency"
)

// Field é a definição de um campo dinâmico do template.
type Field struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Type         string   `json:"type"`
	Required     bool     `json:"required"`
	Options      []string `json:"options,omitempty"` // para campos select
	DefaultValue any      `json:"defaultValue,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
	Order        int      `json:"order"`
}

type Style struct {
	HeaderColor     string `json:"headerColor"`
	HeaderTextColor string `json:"headerTextColor"`
	FontFamily      string `json:"fontFamily"`
	FontSize        string `json:"fontSize"`
	Logo            string `json:"logo,omitempty"`
	ShowLogo        bool   `json:"showLogo"`
	FooterText      string `json:"footerText,omitempty"`
	UseCustomHeader bool   `json:"useCustomHeader"`
	CustomHeader    string `json:"customHeader,omitempty"`
}

// Template define os campos e o estilo de uma proposta. Invariantes:
// valores de Order únicos por template; no máximo um template padrão.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Fields      []Field   `json:"fields"`
	Style       Style     `json:"style"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Proposal é uma proposta comercial. Fields carrega os valores dos campos
// dinâmicos do template, validados na borda contra o schema do template.
type Proposal struct {
	ID          string         `json:"id"`
	TemplateID  string         `json:"templateId"`
	Title       string         `json:"title"`
	ClientName  string         `json:"clientName"`
	Value       float64        `json:"value"`
	Description string         `json:"description"`
	ValidUntil  string         `json:"validUntil"`
	Terms       string         `json:"terms"`
	Status      Status         `json:"status"`
	Fields      map[string]any `json:"fields"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Patch é a atualização parcial de uma proposta em rascunho.
type Patch struct {
	Title       *string        `json:"title,omitempty"`
	ClientName  *string        `json:"clientName,omitempty"`
	Value       *float64       `json:"value,omitempty"`
	Description *string        `json:"description,omitempty"`
	ValidUntil  *string        `json:"validUntil,omitempty"`
	Terms       *string        `json:"terms,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

func (p Patch) apply(dst *Proposal) bool {
	changed := false
	if p.Title != nil && *p.Title != dst.Title {
		dst.Title = *p.Title
		changed = true
	}
	if p.ClientName != nil && *p.ClientName != dst.ClientName {
		dst.ClientName = *p.ClientName
		changed = true
	}
	if p.Value != nil && *p.Value != dst.Value {
		dst.Value = *p.Value
		changed = true
	}
	if p.Description != nil && *p.Description != dst.Description {
		dst.Description = *p.Description
		changed = true
	}
	if p.ValidUntil != nil && *p.ValidUntil != dst.ValidUntil {
		dst.ValidUntil = *p.ValidUntil
		changed = true
	}
	if p.Terms != nil && *p.Terms != dst.Terms {
		dst.Terms = *p.Terms
		changed = true
	}
	if p.Fields != nil && !reflect.DeepEqual(p.Fields, dst.Fields) {
		dst.Fields = p.Fields
		changed = true
	}
	return changed
}
