package domain

import (
	"fmt"
	"strings"
)

// StoreItem is a reward that can be bought with points.
type StoreItem struct {
	Name string `json:"name" mapstructure:"name"`
	Cost int    `json:"cost" mapstructure:"cost"`
}

// NewStoreItem validates and returns a reward.
func NewStoreItem(name string, cost int) (StoreItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StoreItem{}, fmt.Errorf("%w: reward name cannot be empty", ErrValidation)
	}
	if cost <= 0 {
		return StoreItem{}, fmt.Errorf("%w: reward %q must cost at least 1 point", ErrValidation, name)
	}
	return StoreItem{Name: name, Cost: cost}, nil
}

// DefaultCatalog returns the built-in reward catalog.
func DefaultCatalog() []StoreItem {
	return []StoreItem{
		{Name: "Ver un capítulo de serie", Cost: 10},
		{Name: "Comer un postre", Cost: 20},
		{Name: "Jugar videojuegos 1 hora", Cost: 30},
	}
}

// FindStoreItem looks a reward up by name, ignoring case.
func FindStoreItem(catalog []StoreItem, name string) (StoreItem, error) {
	name = strings.TrimSpace(name)
	for _, item := range catalog {
		if strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return StoreItem{}, fmt.Errorf("reward %q: %w", name, ErrNotFound)
}
