package catalog

import (
	"fmt"
	"strings"

	"github.com/124-Aaron-Liu/telegram-stars/internal/domain/model"
)

// Service is the product catalog. It is populated once at startup and never
// mutated, so lookups need no locking.
type Service struct {
	products []model.Product
	byID     map[string]model.Product
}

func NewService(products []model.Product) (*Service, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog product with empty id (title %q)", p.Title)
		}
		if p.ID != id {
			return nil, fmt.Errorf("catalog product id %q has surrounding whitespace", p.ID)
		}
		if _, exists := byID[id]; exists {
			return nil, fmt.Errorf("duplicate catalog product id %q", id)
		}
		if p.PriceStars <= 0 {
			return nil, fmt.Errorf("catalog product %q has non-positive price %d", id, p.PriceStars)
		}
		byID[id] = p
	}

	return &Service{
		products: append([]model.Product(nil), products...),
		byID:     byID,
	}, nil
}

func (s *Service) Lookup(id string) (model.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// All returns the catalog in load order.
func (s *Service) All() []model.Product {
	return append([]model.Product(nil), s.products...)
}
