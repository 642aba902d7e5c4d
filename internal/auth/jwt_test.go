package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GeraEValidaToken(t *testing.T) {
	m := NewManager("segredo-de-teste")

	token, err := m.GerarToken("user-1", []string{"deals:read", "users:manage"})
	require.NoError(t, err)

	claims, err := m.ValidarToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, []string{"deals:read", "users:manage"}, claims.Permissions)
}

func TestManager_RejeitaSegredoErrado(t *testing.T) {
	m := NewManager("segredo-a")
	outro := NewManager("segredo-b")

	token, err := m.GerarToken("user-1", nil)
	require.NoError(t, err)

	_, err = outro.ValidarToken(token)
	assert.Error(t, err)
}

func TestManager_RejeitaTokenMalformado(t *testing.T) {
	m := NewManager("segredo")

	_, err := m.ValidarToken("nao-e-um-jwt")
	assert.Error(t, err)
}
