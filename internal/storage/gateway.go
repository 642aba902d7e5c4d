package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que a busca por id não encontrou nenhum registro.
var ErrNotFound = errors.New("registro não encontrado")

// Nomes das coleções persistidas. Cada coleção é um array JSON completo;
// todo Save sobrescreve o array inteiro (read-modify-write nos callers).
const (
	ColDeals             = "deals"
	ColPipelines         = "pipelines"
	ColLeads             = "leads"
	ColContacts          = "contacts"
	ColProposals         = "proposals"
	ColProposalTemplates = "proposalTemplates"
	ColContracts         = "contracts"
)

// Gateway lê e grava coleções JSON, simulando a latência de uma API real.
// Sem controle de concorrência: o último Save vence. Durabilidade não é
// objetivo desta camada.
type Gateway interface {
	// Load devolve o array JSON da coleção ("[]" se ainda não existir).
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save sobrescreve o array JSON da coleção por completo.
	Save(ctx context.Context, collection string, data []byte) error
}

// wait bloqueia pela latência artificial respeitando o contexto.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
