package service

import (
	"context"
	"sort"
	"strconv"

	"school-canteen/internal/domain"
)

type CartService struct {
	carts   CartStore
	catalog CatalogRepository
}

func NewCartService(carts CartStore, catalog CatalogRepository) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// Add increments the cart entry for itemID and returns the total item count.
// The item id is not checked against the catalog here; stale ids are dropped
// when the cart is viewed or checked out.
func (s *CartService) Add(ctx context.Context, token, itemID string, quantity int) (int, error) {
	if quantity < 1 {
		quantity = 1
	}
	return s.carts.AddToCart(ctx, token, itemID, quantity)
}

// View resolves each cart entry against current menu data. Entries whose item
// no longer exists or is unavailable are silently skipped; their quantity
// stays in the session but contributes nothing.
func (s *CartService) View(ctx context.Context, token string) ([]domain.CartLine, float64, error) {
	cart, err := s.carts.GetCart(ctx, token)
	if err != nil {
		return nil, 0, err
	}

	var lines []domain.CartLine
	var total float64
	for itemID, quantity := range cart {
		id, err := strconv.Atoi(itemID)
		if err != nil {
			continue
		}
		item, err := s.catalog.GetMenuItem(id)
		if err != nil || !item.Available {
			continue
		}
		lineTotal := item.Price * float64(quantity)
		lines = append(lines, domain.CartLine{Item: *item, Quantity: quantity, Total: lineTotal})
		total += lineTotal
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Item.ID < lines[j].Item.ID })
	return lines, total, nil
}

// Count reports the total item count of the raw cart mapping, including
// entries that would not survive resolution.
func (s *CartService) Count(ctx context.Context, token string) (int, error) {
	cart, err := s.carts.GetCart(ctx, token)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

var _ CartServiceInterface = (*CartService)(nil)
