package crm

import (
	"sync"
	"time"
)

// Store é a coleção em memória do CRM. As mutações são síncronas e não
// persistem nada — a persistência fica com a camada de cache por cima.
// Mutação por id inexistente é no-op: não falha e não cria registro.
//
// O store é o único dono mutável das coleções; construído no start do
// processo e injetado em quem precisa (nunca um singleton de pacote).
type Store struct {
	mu        sync.RWMutex
	deals     []Deal
	pipelines []Pipeline
	leads     []Lead
	contacts  []Contact
	now       func() time.Time
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Deals() []Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Deal, len(s.deals))
	copy(cp, s.deals)
	return cp
}

func (s *Store) Deal(id string) (Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.deals {
		if d.ID == id {
			return d, true
		}
	}
	return Deal{}, false
}

func (s *Store) SetDeals(deals []Deal) {
	s.mu.Lock()
	s.deals = append([]Deal(nil), deals...)
	s.mu.Unlock()
}

func (s *Store) AddDeal(d Deal) {
	s.mu.Lock()
	s.deals = append(s.deals, d)
	s.mu.Unlock()
}

// UpdateDeal aplica o patch ao negócio. UpdatedAt só avança quando algum
// campo mudou de fato. Id inexistente: no-op, retorna false.
func (s *Store) UpdateDeal(id string, patch DealPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == id {
			if patch.apply(&s.deals[i]) {
				s.deals[i].UpdatedAt = s.now()
			}
			return true
		}
	}
	return false
}

func (s *Store) RemoveDeal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == id {
			s.deals = append(s.deals[:i], s.deals[i+1:]...)
			return
		}
	}
}

// MoveDeal troca a etapa do negócio. Não valida a etapa — isso é papel
// do Engine; aqui é só a mutação de snapshot.
func (s *Store) MoveDeal(dealID, stageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == dealID {
			if s.deals[i].StageID != stageID {
				s.deals[i].StageID = stageID
				s.deals[i].UpdatedAt = s.now()
			}
			return true
		}
	}
	return false
}

func (s *Store) Pipelines() []Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Pipeline, len(s.pipelines))
	copy(cp, s.pipelines)
	return cp
}

func (s *Store) SetPipelines(pipelines []Pipeline) {
	s.mu.Lock()
	s.pipelines = append([]Pipeline(nil), pipelines...)
	s.mu.Unlock()
}

// ActivePipeline é o primeiro pipeline cadastrado (o funil padrão).
func (s *Store) ActivePipeline() (Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pipelines) == 0 {
		return Pipeline{}, false
	}
	return s.pipelines[0], true
}

// PipelineOf localiza o pipeline que contém a etapa atual do negócio.
func (s *Store) PipelineOf(stageID string) (Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pipelines {
		if _, ok := p.Stage(stageID); ok {
			return p, true
		}
	}
	return Pipeline{}, false
}

func (s *Store) Leads() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Lead, len(s.leads))
	copy(cp, s.leads)
	return cp
}

func (s *Store) SetLeads(leads []Lead) {
	s.mu.Lock()
	s.leads = append([]Lead(nil), leads...)
	s.mu.Unlock()
}

func (s *Store) AddLead(l Lead) {
	s.mu.Lock()
	s.leads = append(s.leads, l)
	s.mu.Unlock()
}

// UpdateLead troca o status do lead. Id inexistente: no-op.
func (s *Store) UpdateLeadStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leads {
		if s.leads[i].ID == id {
			if s.leads[i].Status != status {
				s.leads[i].Status = status
				s.leads[i].UpdatedAt = s.now()
			}
			return true
		}
	}
	return false
}

func (s *Store) Contacts() []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Contact, len(s.contacts))
	copy(cp, s.contacts)
	return cp
}

func (s *Store) SetContacts(contacts []Contact) {
	s.mu.Lock()
	s.contacts = append([]Contact(nil), contacts...)
	s.mu.Unlock()
}
