// Package cache faz a mediação entre os handlers e (stores + gateway):
// deduplica buscas concorrentes, aplica janelas de staleness por coleção e
// invalida leituras após cada mutação bem-sucedida.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KromaEnergia/crm-vendas/internal/notify"
)

// Janelas padrão: coleções voláteis (deals, proposals) ficam 5 minutos
// frescas; as estáveis (pipelines, templates) 30 minutos.
const (
	DefaultStaleness = 5 * time.Minute
	StableStaleness  = 30 * time.Minute
)

type Fetch func(ctx context.Context) (any, error)

// Result é o trio devolvido por Read. IsLoading indica que não havia valor
// em cache e a chamada bloqueou na busca; IsStale indica que o valor
// devolvido é antigo e um refresh em segundo plano foi disparado.
type Result struct {
	Data      any
	IsLoading bool
	IsStale   bool
}

type entry struct {
	data      any
	fetchedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	// gens cresce a cada Invalidate da chave; buscas carregam a geração
	// em que partiram e resultados de gerações antigas são descartados.
	gens      map[string]uint64
	group     singleflight.Group
	notifier  notify.Notifier
	staleness map[string]time.Duration
	defStale  time.Duration
	now       func() time.Time
}

type Option func(*Cache)

// WithStaleness define a janela de staleness de uma chave específica.
func WithStaleness(key string, d time.Duration) Option {
	return func(c *Cache) { c.staleness[key] = d }
}

func WithDefaultStaleness(d time.Duration) Option {
	return func(c *Cache) { c.defStale = d }
}

// WithClock injeta o relógio (testes).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(notifier notify.Notifier, opts ...Option) *Cache {
	c := &Cache{
		entries:   map[string]*entry{},
		gens:      map[string]uint64{},
		notifier:  notifier,
		staleness: map[string]time.Duration{},
		defStale:  DefaultStaleness,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) window(key string) time.Duration {
	if d, ok := c.staleness[key]; ok {
		return d
	}
	return c.defStale
}

// Read devolve o valor da chave. Com cache fresco, retorna direto. Com
// cache velho, retorna o valor antigo (IsStale) e dispara o refetch em
// segundo plano. Sem cache, bloqueia na busca — buscas concorrentes da
// mesma chave compartilham uma única chamada em voo.
func (c *Cache) Read(ctx context.Context, key string, fetch Fetch) (Result, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		stale := c.now().Sub(e.fetchedAt) >= c.window(key)
		data := e.data
		c.mu.Unlock()
		if stale {
			c.refreshAsync(key, fetch)
		}
		return Result{Data: data, IsStale: stale}, nil
	}
	gen := c.gens[key]
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return Result{IsLoading: true}, err
	}
	c.store(key, gen, v)
	return Result{Data: v, IsLoading: true}, nil
}

// refreshAsync dispara a rebusca sem bloquear o leitor. Erros mantêm o
// valor antigo em cache.
func (c *Cache) refreshAsync(key string, fetch Fetch) {
	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()
	ch := c.group.DoChan(key, func() (any, error) {
		return fetch(context.Background())
	})
	go func() {
		res := <-ch
		if res.Err != nil {
			log.Printf("refresh da chave %s falhou: %v", key, res.Err)
			return
		}
		c.store(key, gen, res.Val)
	}()
}

// store grava o resultado de uma busca. Se a chave foi invalidada depois
// que a busca partiu, o resultado é pré-mutação e é descartado.
func (c *Cache) store(key string, gen uint64, v any) {
	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = &entry{data: v, fetchedAt: c.now()}
	}
	c.mu.Unlock()
}

// Prime grava um valor fresco direto na chave (ex.: o registro retornado
// por uma mutação), evitando uma rebusca imediata.
func (c *Cache) Prime(key string, v any) {
	c.mu.Lock()
	c.entries[key] = &entry{data: v, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate descarta as chaves: a próxima leitura busca dado fresco e
// buscas ainda em voo deixam de poder repovoar o cache.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
		c.group.Forget(key)
	}
	c.mu.Unlock()
}

// Mutation descreve uma operação de escrita. Em caso de sucesso as chaves
// em Invalidate são descartadas e o toast de Success (se houver) é emitido;
// em caso de falha o cache fica intacto e o toast de erro é emitido.
type Mutation struct {
	Run        func(ctx context.Context) (any, error)
	Invalidate []string
	// Success monta o toast a partir do resultado. Nil = sem toast.
	Success func(v any) (title, message string)
	// Error monta o toast de falha. Nil = toast padrão.
	Error func(err error) (title, message string)
}

func (c *Cache) Mutate(ctx context.Context, m Mutation) (any, error) {
	v, err := m.Run(ctx)
	if err != nil {
		title, message := "Erro", "Não foi possível concluir a operação"
		if m.Error != nil {
			title, message = m.Error(err)
		}
		c.notifier.Notify(notify.KindError, title, message)
		return nil, err
	}
	c.Invalidate(m.Invalidate...)
	if m.Success != nil {
		title, message := m.Success(v)
		c.notifier.Notify(notify.KindSuccess, title, message)
	}
	return v, nil
}
