package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/KromaEnergia/crm-vendas/internal/policy"
)

type ctxKey string

const (
	CtxUserID      ctxKey = "usuarioID"
	CtxPermissions ctxKey = "permissoes"
)

// UserID extrai o id do usuário autenticado do contexto.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(CtxUserID).(string)
	return v
}

// Permissions extrai as permissões do usuário autenticado do contexto.
func Permissions(ctx context.Context) []string {
	v, _ := ctx.Value(CtxPermissions).([]string)
	return v
}

// MiddlewareAutenticacao valida o bearer token e injeta usuário e
// permissões no contexto da requisição.
func (m *Manager) MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := m.ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxPermissions, claims.Permissions)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission barra a requisição quando o usuário não tem a
// permissão exigida.
func RequirePermission(authz *policy.Authorizer, required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authz.Can(Permissions(r.Context()), required) {
				http.Error(w, "permissão insuficiente", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
