package proposals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

// API é o acesso a dados de propostas sobre o gateway de persistência.
type API struct {
	gw    storage.Gateway
	now   func() time.Time
	newID func() string
}

func NewAPI(gw storage.Gateway) *API {
	return &API{gw: gw, now: time.Now, newID: uuid.NewString}
}

func (a *API) Proposals(ctx context.Context) ([]Proposal, error) {
	return storage.LoadCollection[Proposal](ctx, a.gw, storage.ColProposals)
}

func (a *API) Proposal(ctx context.Context, id string) (*Proposal, error) {
	ps, err := a.Proposals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		if ps[i].ID == id {
			return &ps[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateProposal valida as regras estáticas e o bag dinâmico contra o
// schema do template antes de persistir. Nasce como rascunho.
func (a *API) CreateProposal(ctx context.Context, p Proposal) (*Proposal, error) {
	now := a.now()
	if err := ValidateProposal(p, now); err != nil {
		return nil, err
	}
	if p.TemplateID != "" {
		tpl, err := a.Template(ctx, p.TemplateID)
		if err != nil {
			return nil, err
		}
		if err := ValidateFields(*tpl, p.Fields); err != nil {
			return nil, err
		}
	}
	ps, err := a.Proposals(ctx)
	if err != nil {
		return nil, err
	}
	p.ID = a.newID()
	p.Status = StatusDraft
	if p.Fields == nil {
		p.Fields = map[string]any{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	ps = append(ps, p)
	if err := storage.SaveCollection(ctx, a.gw, storage.ColProposals, ps); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProposal edita o conteúdo. Só rascunhos são editáveis e o
// resultado do patch passa pelas mesmas regras da criação antes de
// ser persistido.
func (a *API) UpdateProposal(ctx context.Context, id string, patch Patch) (*Proposal, error) {
	ps, err := a.Proposals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		if ps[i].ID == id {
			if ps[i].Status != StatusDraft {
				return nil, validation.Errorf("status", "apenas rascunhos podem ser editados")
			}
			depois := ps[i]
			mudou := patch.apply(&depois)
			if err := ValidateProposal(depois, a.now()); err != nil {
				return nil, err
			}
			if patch.Fields != nil && depois.TemplateID != "" {
				tpl, err := a.Template(ctx, depois.TemplateID)
				if err != nil {
					return nil, err
				}
				if err := ValidateFields(*tpl, depois.Fields); err != nil {
					return nil, err
				}
			}
			if mudou {
				depois.UpdatedAt = a.now()
			}
			ps[i] = depois
			if err := storage.SaveCollection(ctx, a.gw, storage.ColProposals, ps); err != nil {
				return nil, err
			}
			return &ps[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// UpdateStatus aplica uma transição de mão única do ciclo de vida.
func (a *API) UpdateStatus(ctx context.Context, id string, to Status) (*Proposal, error) {
	ps, err := a.Proposals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		if ps[i].ID == id {
			if !ps[i].Status.CanTransition(to) {
				return nil, validation.Errorf("status", "transição de %s para %s não é permitida", ps[i].Status, to)
			}
			ps[i].Status = to
			ps[i].UpdatedAt = a.now()
			if err := storage.SaveCollection(ctx, a.gw, storage.ColProposals, ps); err != nil {
				return nil, err
			}
			return &ps[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (a *API) DeleteProposal(ctx context.Context, id string) error {
	ps, err := a.Proposals(ctx)
	if err != nil {
		return err
	}
	for i := range ps {
		if ps[i].ID == id {
			ps = append(ps[:i], ps[i+1:]...)
			return storage.SaveCollection(ctx, a.gw, storage.ColProposals, ps)
		}
	}
	return storage.ErrNotFound
}

func (a *API) Templates(ctx context.Context) ([]Template, error) {
	return storage.LoadCollection[Template](ctx, a.gw, storage.ColProposalTemplates)
}

func (a *API) Template(ctx context.Context, id string) (*Template, error) {
	ts, err := a.Templates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ts {
		if ts[i].ID == id {
			return &ts[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateTemplate persiste o template. Se vier como padrão, os demais
// perdem a marcação — no máximo um padrão por vez.
func (a *API) CreateTemplate(ctx context.Context, t Template) (*Template, error) {
	if err := ValidateTemplate(t); err != nil {
		return nil, err
	}
	ts, err := a.Templates(ctx)
	if err != nil {
		return nil, err
	}
	t.ID = a.newID()
	t.CreatedAt = a.now()
	t.UpdatedAt = t.CreatedAt
	if t.IsDefault {
		for i := range ts {
			ts[i].IsDefault = false
		}
	}
	ts = append(ts, t)
	if err := storage.SaveCollection(ctx, a.gw, storage.ColProposalTemplates, ts); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *API) DeleteTemplate(ctx context.Context, id string) error {
	ts, err := a.Templates(ctx)
	if err != nil {
		return err
	}
	for i := range ts {
		if ts[i].ID == id {
			ts = append(ts[:i], ts[i+1:]...)
			return storage.SaveCollection(ctx, a.gw, storage.ColProposalTemplates, ts)
		}
	}
	return storage.ErrNotFound
}
