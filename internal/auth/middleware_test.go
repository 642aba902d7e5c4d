package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/policy"
)

func montarRotaProtegida(t *testing.T, m *Manager, required string) http.Handler {
	t.Helper()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequirePermission(policy.NewAuthorizer(), required)
	return m.MiddlewareAutenticacao(guard(ok))
}

func TestMiddleware_SemTokenBarra(t *testing.T) {
	m := NewManager("segredo")
	h := montarRotaProtegida(t, m, "users:manage")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission_BarraSemPermissao(t *testing.T) {
	m := NewManager("segredo")
	h := montarRotaProtegida(t, m, "users:manage")

	token, err := m.GerarToken("user-1", []string{"deals:read"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission_DeixaPassarComPermissao(t *testing.T) {
	m := NewManager("segredo")
	h := montarRotaProtegida(t, m, "users:manage")

	casos := map[string][]string{
		"permissão exata": {"users:manage"},
		"curinga":         {policy.Wildcard},
	}
	for nome, perms := range casos {
		t.Run(nome, func(t *testing.T) {
			token, err := m.GerarToken("user-1", perms)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
