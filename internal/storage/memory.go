package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryGateway mantém as coleções em memória. Usado nos testes e no modo
// de desenvolvimento sem disco. SaveErr, quando definido, faz todo Save
// falhar (simula rejeição de escrita).
type MemoryGateway struct {
	mu      sync.Mutex
	data    map[string][]byte
	delay   time.Duration
	SaveErr error
}

func NewMemoryGateway(delay time.Duration) *MemoryGateway {
	return &MemoryGateway{data: map[string][]byte{}, delay: delay}
}

func (g *MemoryGateway) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := wait(ctx, g.delay); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	data, ok := g.data[collection]
	if !ok {
		return []byte("[]"), nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (g *MemoryGateway) Save(ctx context.Context, collection string, data []byte) error {
	if err := wait(ctx, g.delay); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.SaveErr != nil {
		return g.SaveErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	g.data[collection] = cp
	return nil
}
