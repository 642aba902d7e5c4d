// Package policy decide o que cada usuário pode fazer a partir da sua
// lista de permissões.
package policy

// Wildcard concede acesso total, usado pelo perfil admin.
const Wildcard = "*"

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Can verifica se a permissão exigida está presente. O curinga "*"
// libera qualquer operação.
func (a *Authorizer) Can(permissions []string, required string) bool {
	for _, p := range permissions {
		if p == Wildcard || p == required {
			return true
		}
	}
	return false
}
