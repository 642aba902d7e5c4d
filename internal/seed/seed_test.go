package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/crm"
	"github.com/KromaEnergia/crm-vendas/internal/proposals"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
)

func TestGateway_SemeiaColecoesVazias(t *testing.T) {
	gw := storage.NewMemoryGateway(0)
	ctx := context.Background()

	require.NoError(t, Gateway(ctx, gw))

	pipelines, err := storage.LoadCollection[crm.Pipeline](ctx, gw, storage.ColPipelines)
	require.NoError(t, err)
	require.Len(t, pipelines, 1)
	assert.Len(t, pipelines[0].Stages, 7)

	deals, err := storage.LoadCollection[crm.Deal](ctx, gw, storage.ColDeals)
	require.NoError(t, err)
	assert.Len(t, deals, 3)

	templates, err := storage.LoadCollection[proposals.Template](ctx, gw, storage.ColProposalTemplates)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.True(t, templates[0].IsDefault)
}

func TestGateway_NaoSobrescreveColecaoExistente(t *testing.T) {
	gw := storage.NewMemoryGateway(0)
	ctx := context.Background()

	meus := []crm.Deal{{ID: "x", Title: "Meu negócio", Value: 10}}
	require.NoError(t, storage.SaveCollection(ctx, gw, storage.ColDeals, meus))

	require.NoError(t, Gateway(ctx, gw))

	deals, err := storage.LoadCollection[crm.Deal](ctx, gw, storage.ColDeals)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Meu negócio", deals[0].Title)
}
