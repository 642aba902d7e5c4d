// Package contracts guarda os contratos fechados com clientes.
package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
	StatusCanceled Status = "canceled"
)

type Contract struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ClientName  string    `json:"clientName"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Value       float64   `json:"value"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// API é o acesso a dados de contratos sobre o gateway.
type API struct {
	gw    storage.Gateway
	now   func() time.Time
	newID func() string
}

func NewAPI(gw storage.Gateway) *API {
	return &API{gw: gw, now: time.Now, newID: uuid.NewString}
}

func (a *API) Contracts(ctx context.Context) ([]Contract, error) {
	return storage.LoadCollection[Contract](ctx, a.gw, storage.ColContracts)
}

func (a *API) Contract(ctx context.Context, id string) (*Contract, error) {
	cs, err := a.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cs {
		if cs[i].ID == id {
			return &cs[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (a *API) Create(ctx context.Context, c Contract) (*Contract, error) {
	if c.Title == "" {
		return nil, validation.Errorf("title", "título é obrigatório")
	}
	if c.ClientName == "" {
		return nil, validation.Errorf("clientName", "nome do cliente é obrigatório")
	}
	if c.Value < 0 {
		return nil, validation.Errorf("value", "valor deve ser positivo")
	}
	if c.StartDate == "" || c.EndDate == "" {
		return nil, validation.Errorf("startDate", "período do contrato é obrigatório")
	}
	cs, err := a.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	c.ID = a.newID()
	if c.Status == "" {
		c.Status = StatusActive
	}
	c.CreatedAt = a.now()
	c.UpdatedAt = c.CreatedAt
	cs = append(cs, c)
	if err := storage.SaveCollection(ctx, a.gw, storage.ColContracts, cs); err != nil {
		return nil, err
	}
	return &c, nil
}

func (a *API) Delete(ctx context.Context, id string) error {
	cs, err := a.Contracts(ctx)
	if err != nil {
		return err
	}
	for i := range cs {
		if cs[i].ID == id {
			cs = append(cs[:i], cs[i+1:]...)
			return storage.SaveCollection(ctx, a.gw, storage.ColContracts, cs)
		}
	}
	return storage.ErrNotFound
}
