package storage

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

// BadgerGateway guarda cada coleção como um valor único no Badger,
// equivalente ao blob JSON por chave que o front usava no localStorage.
type BadgerGateway struct {
	db    *badger.DB
	delay time.Duration
}

// OpenBadger abre (ou cria) o banco local em dir. delay é a latência
// artificial aplicada a cada Load/Save.
func OpenBadger(dir string, delay time.Duration) (*BadgerGateway, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("abrir badger em %s: %w", dir, err)
	}
	return &BadgerGateway{db: db, delay: delay}, nil
}

func (g *BadgerGateway) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := wait(ctx, g.delay); err != nil {
		return nil, err
	}
	var data []byte
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(collection))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("carregar coleção %s: %w", collection, err)
	}
	if data == nil {
		data = []byte("[]")
	}
	return data, nil
}

func (g *BadgerGateway) Save(ctx context.Context, collection string, data []byte) error {
	if err := wait(ctx, g.delay); err != nil {
		return err
	}
	err := g.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(collection), data)
	})
	if err != nil {
		return fmt.Errorf("gravar coleção %s: %w", collection, err)
	}
	return nil
}

func (g *BadgerGateway) Close() error {
	return g.db.Close()
}
