package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromaEnergia/crm-vendas/internal/notify"
)

type relogio struct {
	mu sync.Mutex
	t  time.Time
}

func novoRelogio() *relogio {
	return &relogio{t: time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)}
}

func (r *relogio) Now() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t
}

func (r *relogio) Avancar(d time.Duration) {
	r.mu.Lock()
	r.t = r.t.Add(d)
	r.mu.Unlock()
}

func TestRead_PrimeiraLeituraBloqueia(t *testing.T) {
	c := New(&notify.Memory{})

	res, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		return "fresco", nil
	})
	require.NoError(t, err)
	assert.True(t, res.IsLoading)
	assert.False(t, res.IsStale)
	assert.Equal(t, "fresco", res.Data)
}

func TestRead_CacheFrescoNaoRebusca(t *testing.T) {
	c := New(&notify.Memory{})
	var chamadas int32
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&chamadas, 1)
		return "valor", nil
	}

	_, err := c.Read(context.Background(), "deals", fetch)
	require.NoError(t, err)

	res, err := c.Read(context.Background(), "deals", fetch)
	require.NoError(t, err)
	assert.False(t, res.IsLoading)
	assert.False(t, res.IsStale)
	assert.Equal(t, "valor", res.Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&chamadas))
}

func TestRead_CacheVelhoDevolveAntigoERefazAoFundo(t *testing.T) {
	clock := novoRelogio()
	c := New(&notify.Memory{}, WithClock(clock.Now))

	_, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		return "antigo", nil
	})
	require.NoError(t, err)

	clock.Avancar(DefaultStaleness + time.Second)

	refeito := make(chan struct{})
	res, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		close(refeito)
		return "novo", nil
	})
	require.NoError(t, err)
	assert.True(t, res.IsStale)
	assert.Equal(t, "antigo", res.Data, "leitor recebe o valor antigo na hora")

	select {
	case <-refeito:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh em segundo plano não disparou")
	}

	assert.Eventually(t, func() bool {
		r, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
			return "nunca", nil
		})
		return err == nil && r.Data == "novo"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRead_BuscasConcorrentesCompartilhamVoo(t *testing.T) {
	c := New(&notify.Memory{})
	var chamadas int32
	libera := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Read(context.Background(), "deals", func(context.Context) (any, error) {
				atomic.AddInt32(&chamadas, 1)
				<-libera
				return "unico", nil
			})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(libera)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&chamadas), "uma única busca em voo para a mesma chave")
}

func TestInvalidate_ProximaLeituraBusca(t *testing.T) {
	c := New(&notify.Memory{})
	var chamadas int32
	fetch := func(context.Context) (any, error) {
		return atomic.AddInt32(&chamadas, 1), nil
	}

	_, err := c.Read(context.Background(), "deals", fetch)
	require.NoError(t, err)

	c.Invalidate("deals")

	res, err := c.Read(context.Background(), "deals", fetch)
	require.NoError(t, err)
	assert.True(t, res.IsLoading)
	assert.Equal(t, int32(2), res.Data)
}

func TestInvalidate_BuscaEmVooNaoRepovoaCache(t *testing.T) {
	c := New(&notify.Memory{})
	comecou := make(chan struct{})
	segura := make(chan struct{})
	terminou := make(chan struct{})

	go func() {
		defer close(terminou)
		_, _ = c.Read(context.Background(), "deals", func(context.Context) (any, error) {
			close(comecou)
			<-segura
			return "pre-mutacao", nil
		})
	}()
	<-comecou

	_, err := c.Mutate(context.Background(), Mutation{
		Run: func(context.Context) (any, error) {
			return "gravado", nil
		},
		Invalidate: []string{"deals"},
	})
	require.NoError(t, err)

	close(segura)
	<-terminou

	res, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		return "pos-mutacao", nil
	})
	require.NoError(t, err)
	assert.True(t, res.IsLoading, "chave invalidada força nova busca")
	assert.Equal(t, "pos-mutacao", res.Data, "leitura após mutação não devolve o valor pré-mutação")
}

func TestMutate_SucessoInvalidaENotifica(t *testing.T) {
	sink := &notify.Memory{}
	c := New(sink)
	c.Prime("deals", "cacheado")

	v, err := c.Mutate(context.Background(), Mutation{
		Run: func(context.Context) (any, error) {
			return "criado", nil
		},
		Invalidate: []string{"deals"},
		Success: func(any) (string, string) {
			return "Sucesso", "Negócio criado com sucesso"
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "criado", v)

	sent := sink.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindSuccess, sent[0].Kind)
	assert.Equal(t, "Negócio criado com sucesso", sent[0].Message)

	res, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		return "rebuscado", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "rebuscado", res.Data, "mutação invalida a coleção")
}

func TestMutate_FalhaMantemCacheENotificaErro(t *testing.T) {
	sink := &notify.Memory{}
	c := New(sink)
	c.Prime("deals", "intacto")

	_, err := c.Mutate(context.Background(), Mutation{
		Run: func(context.Context) (any, error) {
			return nil, errors.New("gateway recusou")
		},
		Invalidate: []string{"deals"},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar o negócio"
		},
	})
	require.Error(t, err)

	sent := sink.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindError, sent[0].Kind)

	res, err := c.Read(context.Background(), "deals", func(context.Context) (any, error) {
		return "rebuscado", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "intacto", res.Data, "falha não toca o cache")
}

func TestWithStaleness_JanelaPorChave(t *testing.T) {
	clock := novoRelogio()
	c := New(&notify.Memory{},
		WithClock(clock.Now),
		WithStaleness("pipelines", StableStaleness),
	)

	_, err := c.Read(context.Background(), "pipelines", func(context.Context) (any, error) {
		return "funil", nil
	})
	require.NoError(t, err)

	clock.Avancar(DefaultStaleness + time.Minute)

	res, err := c.Read(context.Background(), "pipelines", func(context.Context) (any, error) {
		return "nunca", nil
	})
	require.NoError(t, err)
	assert.False(t, res.IsStale, "coleção estável segue fresca após a janela padrão")
}
