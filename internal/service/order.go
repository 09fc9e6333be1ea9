package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"time"

	"school-canteen/internal/domain"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

type OrderService struct {
	orders    OrderRepository
	catalog   CatalogRepository
	carts     CartStore
	publisher OrderPublisher
	qrEncoder QRGenerator
}

func NewOrderService(orders OrderRepository, catalog CatalogRepository, carts CartStore, publisher OrderPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		carts:     carts,
		publisher: publisher,
		qrEncoder: qr,
	}
}

// Checkout materializes the session cart into a persisted order. Each line is
// re-resolved against the catalog at this instant, so a price change between
// add-to-cart and checkout is reflected. Lines whose item no longer exists
// are dropped without blocking the rest. On success the cart is cleared.
//
// Nothing here guards against a concurrent price or availability change by an
// admin: last read wins.
func (s *OrderService) Checkout(ctx context.Context, token string, userID int) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	items := []domain.OrderItem{}
	var total float64
	for itemID, quantity := range cart {
		id, err := strconv.Atoi(itemID)
		if err != nil {
			continue
		}
		item, err := s.catalog.GetMenuItem(id)
		if err != nil {
			continue
		}
		items = append(items, domain.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
		})
		total += item.Price * float64(quantity)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })

	order := &domain.Order{
		UserID:     userID,
		Items:      items,
		TotalPrice: total,
		Status:     domain.StatusPending,
	}
	if err := s.orders.CreateOrder(order); err != nil {
		return nil, err
	}

	if qr, err := s.qrEncoder.Generate(order.ID); err != nil {
		log.Printf("[canteen] WARNING: failed to generate QR code for order %d: %v", order.ID, err)
	} else if err := s.orders.SaveQRCode(order.ID, qr); err != nil {
		log.Printf("[canteen] WARNING: failed to store QR code for order %d: %v", order.ID, err)
	}

	if err := s.carts.ClearCart(ctx, token); err != nil {
		log.Printf("[canteen] WARNING: failed to clear cart after checkout: %v", err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	})

	return order, nil
}

func (s *OrderService) Get(orderID int) (*domain.Order, error) {
	return s.orders.GetOrder(orderID)
}

func (s *OrderService) UserOrders(userID int) ([]domain.Order, error) {
	return s.orders.ListUserOrders(userID)
}

func (s *OrderService) AllOrders() ([]domain.Order, error) {
	return s.orders.ListOrders()
}

// UpdateStatus overwrites the status unconditionally; any non-empty string is
// accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status string) error {
	rows, err := s.orders.UpdateOrderStatus(orderID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOrderNotFound
	}

	s.publish(ctx, domain.OrderEvent{
		Type:    domain.EventStatusUpdated,
		OrderID: orderID,
		Status:  status,
	})
	return nil
}

// QRCode returns the stored pickup QR, regenerating it if missing.
func (s *OrderService) QRCode(orderID int) ([]byte, error) {
	qr, err := s.orders.GetQRCode(orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 {
		qr, err = s.qrEncoder.Generate(orderID)
		if err != nil {
			return nil, err
		}
		if err := s.orders.SaveQRCode(orderID, qr); err != nil {
			log.Printf("[canteen] WARNING: failed to cache regenerated QR code: %v", err)
		}
	}
	return qr, nil
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("[canteen] WARNING: failed to publish %s event for order %d: %v", event.Type, event.OrderID, err)
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
