package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadCollection decodifica o array JSON da coleção no tipo do domínio.
func LoadCollection[T any](ctx context.Context, gw Gateway, collection string) ([]T, error) {
	data, err := gw.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decodificar coleção %s: %w", collection, err)
	}
	return items, nil
}

// SaveCollection codifica e sobrescreve a coleção inteira.
func SaveCollection[T any](ctx context.Context, gw Gateway, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("codificar coleção %s: %w", collection, err)
	}
	return gw.Save(ctx, collection, data)
}
