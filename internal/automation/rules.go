// Package automation avalia regras de automação sobre os eventos do CRM:
// mudança de etapa de negócio, mudança de status de proposta e criação de
// lead.
package automation

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/KromaEnergia/crm-vendas/internal/notify"
)

type TriggerType string

const (
	TriggerDealStageChanged      TriggerType = "deal_stage_changed"
	TriggerProposalStatusChanged TriggerType = "proposal_status_changed"
	TriggerNewLeadCreated        TriggerType = "new_lead_created"
)

type ActionType string

const (
	ActionSendEmail   ActionType = "send_email"
	ActionCreateTask  ActionType = "create_task"
	ActionNotifyUser  ActionType = "notify_user"
	ActionUpdateField ActionType = "update_field"
)

type Trigger struct {
	Type TriggerType `json:"type"`
	// Conditions casa com os campos do evento (ex.: stageId=won).
	Conditions map[string]string `json:"conditions"`
}

type Action struct {
	Type   ActionType        `json:"type"`
	Params map[string]string `json:"params"`
}

type Rule struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Trigger  Trigger  `json:"trigger"`
	Actions  []Action `json:"actions"`
	IsActive bool     `json:"isActive"`
}

// Event é a ocorrência avaliada contra as condições das regras.
type Event struct {
	Type   TriggerType
	Fields map[string]string
}

// Engine mantém as regras e dispara as ações das ativas cujo gatilho
// casa com o evento.
type Engine struct {
	mu       sync.Mutex
	rules    []Rule
	notifier notify.Notifier
	newID    func() string
}

func NewEngine(notifier notify.Notifier) *Engine {
	return &Engine{notifier: notifier, newID: uuid.NewString}
}

func (e *Engine) Rules() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]Rule, len(e.rules))
	copy(cp, e.rules)
	return cp
}

func (e *Engine) CreateRule(r Rule) Rule {
	e.mu.Lock()
	defer e.mu.Unlock()
	r.ID = e.newID()
	e.rules = append(e.rules, r)
	return r
}

// ToggleRule liga/desliga a regra; id inexistente é no-op.
func (e *Engine) ToggleRule(id string, active bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.rules {
		if e.rules[i].ID == id {
			e.rules[i].IsActive = active
			return true
		}
	}
	return false
}

// Fire avalia o evento contra todas as regras ativas.
func (e *Engine) Fire(ev Event) {
	e.mu.Lock()
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	e.mu.Unlock()

	for _, rule := range rules {
		if !rule.IsActive || rule.Trigger.Type != ev.Type {
			continue
		}
		if !matches(rule.Trigger.Conditions, ev.Fields) {
			continue
		}
		for _, action := range rule.Actions {
			e.run(rule, action, ev)
		}
	}
}

func matches(conditions, fields map[string]string) bool {
	for key, want := range conditions {
		if fields[key] != want {
			return false
		}
	}
	return true
}

func (e *Engine) run(rule Rule, action Action, ev Event) {
	switch action.Type {
	case ActionNotifyUser:
		message := action.Params["message"]
		if message == "" {
			message = "Regra " + rule.Name + " disparada"
		}
		e.notifier.Notify(notify.KindSuccess, "Automação", message)
	default:
		// send_email / create_task / update_field são superfícies do
		// protótipo: registradas, sem executor real.
		log.Printf("automação %s: ação %s pendente de executor (evento %s)", rule.Name, action.Type, ev.Type)
	}
}
