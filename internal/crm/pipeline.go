package crm

import (
	"context"
	"sync"

	"github.com/KromaEnergia/crm-vendas/internal/cache"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
)

// DealKey é a chave de cache de um negócio individual.
func DealKey(id string) string {
	return storage.ColDeals + "/" + id
}

// StageChange é o evento emitido quando um negócio muda de etapa.
type StageChange struct {
	Deal Deal
	From Stage
	To   Stage
}

// Engine é a máquina de transição de etapas do funil. Qualquer etapa pode
// ir para qualquer outra do mesmo pipeline — o arrasto livre no quadro é
// escolha deliberada: flexibilidade manual em vez de workflow imposto.
type Engine struct {
	store *Store
	api   *API
	cache *cache.Cache

	mu        sync.Mutex
	listeners []func(StageChange)
}

func NewEngine(store *Store, api *API, c *cache.Cache) *Engine {
	return &Engine{store: store, api: api, cache: c}
}

// OnStageChange registra um ouvinte de mudança de etapa (automação).
func (e *Engine) OnStageChange(fn func(StageChange)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// MoveDeal move o negócio para a etapa destino. A etapa deve pertencer ao
// pipeline em que o negócio está. Com dealID ou targetStageID inválidos a
// operação é no-op: nada persiste e nenhuma notificação é emitida — o
// chamador recebe storage.ErrNotFound.
//
// No sucesso: stageId e updatedAt atualizados, coleção persistida via
// camada de cache e toast nomeando o negócio e a etapa destino.
func (e *Engine) MoveDeal(ctx context.Context, dealID, targetStageID string) (*Deal, error) {
	deal, ok := e.store.Deal(dealID)
	if !ok {
		return nil, storage.ErrNotFound
	}

	pipeline, ok := e.store.PipelineOf(deal.StageID)
	if !ok {
		pipeline, ok = e.store.ActivePipeline()
		if !ok {
			return nil, storage.ErrNotFound
		}
	}
	target, ok := pipeline.Stage(targetStageID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	from, _ := pipeline.Stage(deal.StageID)

	v, err := e.cache.Mutate(ctx, cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			updated, err := e.api.MoveDeal(ctx, dealID, targetStageID)
			if err != nil {
				return nil, err
			}
			e.store.MoveDeal(dealID, targetStageID)
			return updated, nil
		},
		Invalidate: []string{storage.ColDeals},
		Success: func(v any) (string, string) {
			d := v.(*Deal)
			return "Negócio movido", d.Title + " foi movido para " + target.Name
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível mover o negócio"
		},
	})
	if err != nil {
		return nil, err
	}
	updated := v.(*Deal)
	e.cache.Prime(DealKey(updated.ID), updated)

	e.mu.Lock()
	listeners := make([]func(StageChange), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(StageChange{Deal: *updated, From: from, To: target})
	}
	return updated, nil
}
