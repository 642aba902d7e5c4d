package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

func TestAPI_CreateDealValida(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	_, err := api.CreateDeal(ctx, Deal{Title: "Projeto ERP", Value: -1})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "value", verr.Field)

	_, err = api.CreateDeal(ctx, Deal{Value: 1000})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	d, err := api.CreateDeal(ctx, Deal{Title: "Projeto ERP", Value: 150000, Currency: "BRL", StageID: "proposal"})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)
}

func TestAPI_DealNaoEncontrado(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))

	_, err := api.Deal(context.Background(), "999")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = api.MoveDeal(context.Background(), "999", "won")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = api.UpdateDeal(context.Background(), "999", DealPatch{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAPI_CreateLeadStatusPadrao(t *testing.T) {
	api := NewAPI(storage.NewMemoryGateway(0))
	ctx := context.Background()

	l, err := api.CreateLead(ctx, Lead{Name: "João Silva", Email: "joao@empresa.com"})
	require.NoError(t, err)
	assert.Equal(t, "new", l.Status)

	leads, err := api.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "João Silva", leads[0].Name)
}
