package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registro struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

func TestMemoryGateway_LoadVazioDevolveArray(t *testing.T) {
	gw := NewMemoryGateway(0)

	data, err := gw.Load(context.Background(), ColDeals)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCollection_SaveELoad(t *testing.T) {
	gw := NewMemoryGateway(0)
	ctx := context.Background()

	in := []registro{{ID: "1", Nome: "João"}, {ID: "2", Nome: "Maria"}}
	require.NoError(t, SaveCollection(ctx, gw, ColLeads, in))

	out, err := LoadCollection[registro](ctx, gw, ColLeads)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveCollection_NilViraArrayVazio(t *testing.T) {
	gw := NewMemoryGateway(0)
	ctx := context.Background()

	require.NoError(t, SaveCollection[registro](ctx, gw, ColContacts, nil))

	data, err := gw.Load(ctx, ColContacts)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMemoryGateway_SaveErrPropaga(t *testing.T) {
	gw := NewMemoryGateway(0)
	gw.SaveErr = errors.New("disco cheio")

	err := SaveCollection(context.Background(), gw, ColDeals, []registro{{ID: "1"}})
	assert.ErrorContains(t, err, "disco cheio")
}

func TestMemoryGateway_ContextoCancelado(t *testing.T) {
	gw := NewMemoryGateway(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Load(ctx, ColDeals)
	assert.ErrorIs(t, err, context.Canceled)
}
