package crm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

// API é o acesso a dados do CRM sobre o gateway de persistência.
// Cada escrita é read-modify-write do array completo da coleção.
type API struct {
	gw    storage.Gateway
	now   func() time.Time
	newID func() string
}

func NewAPI(gw storage.Gateway) *API {
	return &API{gw: gw, now: time.Now, newID: uuid.NewString}
}

func (a *API) Deals(ctx context.Context) ([]Deal, error) {
	return storage.LoadCollection[Deal](ctx, a.gw, storage.ColDeals)
}

// Deal busca um negócio por id; storage.ErrNotFound quando não existe.
func (a *API) Deal(ctx context.Context, id string) (*Deal, error) {
	deals, err := a.Deals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].ID == id {
			return &deals[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (a *API) CreateDeal(ctx context.Context, d Deal) (*Deal, error) {
	if d.Value < 0 {
		return nil, validation.Errorf("value", "valor deve ser positivo")
	}
	if d.Title == "" {
		return nil, validation.Errorf("title", "título é obrigatório")
	}
	deals, err := a.Deals(ctx)
	if err != nil {
		return nil, err
	}
	d.ID = a.newID()
	d.CreatedAt = a.now()
	d.UpdatedAt = d.CreatedAt
	deals = append(deals, d)
	if err := storage.SaveCollection(ctx, a.gw, storage.ColDeals, deals); err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *API) UpdateDeal(ctx context.Context, id string, patch DealPatch) (*Deal, error) {
	if patch.Value != nil && *patch.Value < 0 {
		return nil, validation.Errorf("value", "valor deve ser positivo")
	}
	deals, err := a.Deals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].ID == id {
			if patch.apply(&deals[i]) {
				deals[i].UpdatedAt = a.now()
			}
			if err := storage.SaveCollection(ctx, a.gw, storage.ColDeals, deals); err != nil {
				return nil, err
			}
			return &deals[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

// MoveDeal troca a etapa do negócio na coleção persistida.
func (a *API) MoveDeal(ctx context.Context, dealID, stageID string) (*Deal, error) {
	deals, err := a.Deals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].ID == dealID {
			deals[i].StageID = stageID
			deals[i].UpdatedAt = a.now()
			if err := storage.SaveCollection(ctx, a.gw, storage.ColDeals, deals); err != nil {
				return nil, err
			}
			return &deals[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (a *API) Pipelines(ctx context.Context) ([]Pipeline, error) {
	return storage.LoadCollection[Pipeline](ctx, a.gw, storage.ColPipelines)
}

func (a *API) Leads(ctx context.Context) ([]Lead, error) {
	return storage.LoadCollection[Lead](ctx, a.gw, storage.ColLeads)
}

func (a *API) CreateLead(ctx context.Context, l Lead) (*Lead, error) {
	if l.Name == "" {
		return nil, validation.Errorf("name", "nome é obrigatório")
	}
	leads, err := a.Leads(ctx)
	if err != nil {
		return nil, err
	}
	l.ID = a.newID()
	if l.Status == "" {
		l.Status = "new"
	}
	l.CreatedAt = a.now()
	l.UpdatedAt = l.CreatedAt
	leads = append(leads, l)
	if err := storage.SaveCollection(ctx, a.gw, storage.ColLeads, leads); err != nil {
		return nil, err
	}
	return &l, nil
}

func (a *API) Contacts(ctx context.Context) ([]Contact, error) {
	return storage.LoadCollection[Contact](ctx, a.gw, storage.ColContacts)
}
