package proposals

import (
	"sync"
	"time"
)

// Store é a coleção em memória de propostas e templates. Mutação por id
// inexistente é no-op; persistência é responsabilidade da camada acima.
type Store struct {
	mu        sync.RWMutex
	proposals []Proposal
	templates []Template
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

func (s *Store) Proposals() []Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Proposal, len(s.proposals))
	copy(cp, s.proposals)
	return cp
}

func (s *Store) Proposal(id string) (Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.proposals {
		if p.ID == id {
			return p, true
		}
	}
	return Proposal{}, false
}

func (s *Store) SetProposals(ps []Proposal) {
	s.mu.Lock()
	s.proposals = append([]Proposal(nil), ps...)
	s.mu.Unlock()
}

func (s *Store) AddProposal(p Proposal) {
	s.mu.Lock()
	s.proposals = append(s.proposals, p)
	s.mu.Unlock()
}

// UpdateProposal aplica o patch; UpdatedAt só avança com mudança real.
func (s *Store) UpdateProposal(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			if patch.apply(&s.proposals[i]) {
				s.proposals[i].UpdatedAt = s.now()
			}
			return true
		}
	}
	return false
}

// UpdateStatus aplica a transição de status se for permitida.
func (s *Store) UpdateStatus(id string, to Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			if !s.proposals[i].Status.CanTransition(to) {
				return false
			}
			s.proposals[i].Status = to
			s.proposals[i].UpdatedAt = s.now()
			return true
		}
	}
	return false
}

func (s *Store) RemoveProposal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.proposals {
		if s.proposals[i].ID == id {
			s.proposals = append(s.proposals[:i], s.proposals[i+1:]...)
			return
		}
	}
}

func (s *Store) Templates() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Template, len(s.templates))
	copy(cp, s.templates)
	return cp
}

func (s *Store) Template(id string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func (s *Store) SetTemplates(ts []Template) {
	s.mu.Lock()
	s.templates = append([]Template(nil), ts...)
	s.mu.Unlock()
}

// AddTemplate insere o template; se vier marcado como padrão, desmarca os
// demais (no máximo um padrão).
func (s *Store) AddTemplate(t Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.IsDefault {
		for i := range s.templates {
			s.templates[i].IsDefault = false
		}
	}
	s.templates = append(s.templates, t)
}

func (s *Store) RemoveTemplate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return
		}
	}
}
