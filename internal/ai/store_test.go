package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SendMessageRegistraParEPergunta(t *testing.T) {
	s := NewStore(WithDelay(0), WithResponder(func() string { return "resposta fixa" }))

	reply, err := s.SendMessage(context.Background(), "como aumentar a conversão?")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "resposta fixa", reply.Content)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "como aumentar a conversão?", msgs[0].Content)
	assert.False(t, s.IsProcessing())
}

func TestStore_ContextoCanceladoInterrompe(t *testing.T) {
	s := NewStore(WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SendMessage(ctx, "pergunta")
	assert.ErrorIs(t, err, context.Canceled)

	msgs := s.Messages()
	require.Len(t, msgs, 1, "a pergunta fica, a resposta não vem")
	assert.False(t, s.IsProcessing())
}
