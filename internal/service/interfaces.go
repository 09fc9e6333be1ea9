package service

import (
	"context"

	"school-canteen/internal/domain"
)

type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByUsername(username string) (*domain.User, error)
	UserExists(username, email string) (bool, error)
}

type CatalogRepository interface {
	ListCategories() ([]domain.Category, error)
	ListAvailableItems() ([]domain.MenuItem, error)
	ListFeaturedItems(limit int) ([]domain.MenuItem, error)
	GetMenuItem(id int) (*domain.MenuItem, error)
}

type OrderRepository interface {
	CreateOrder(order *domain.Order) error
	GetOrder(id int) (*domain.Order, error)
	ListUserOrders(userID int) ([]domain.Order, error)
	ListOrders() ([]domain.Order, error)
	UpdateOrderStatus(id int, status string) (int64, error)
	SaveQRCode(orderID int, qr []byte) error
	GetQRCode(orderID int) ([]byte, error)
}

type CartStore interface {
	AddToCart(ctx context.Context, token, itemID string, quantity int) (int, error)
	GetCart(ctx context.Context, token string) (domain.Cart, error)
	ClearCart(ctx context.Context, token string) error
}

type SessionStore interface {
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	SetSession(ctx context.Context, session *domain.Session) error
	ClearSession(ctx context.Context, token string) error
	PushFlash(ctx context.Context, token string, flash domain.Flash) error
	PopFlashes(ctx context.Context, token string) ([]domain.Flash, error)
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type CatalogServiceInterface interface {
	Home() ([]domain.Category, []domain.MenuItem, error)
	Menu() ([]domain.CategoryMenu, error)
}

type CartServiceInterface interface {
	Add(ctx context.Context, token, itemID string, quantity int) (int, error)
	View(ctx context.Context, token string) ([]domain.CartLine, float64, error)
	Count(ctx context.Context, token string) (int, error)
}

type AuthServiceInterface interface {
	Register(username, email, password string) error
	Login(username, password string) (*domain.User, error)
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context, token string, userID int) (*domain.Order, error)
	Get(orderID int) (*domain.Order, error)
	UserOrders(userID int) ([]domain.Order, error)
	AllOrders() ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status string) error
	QRCode(orderID int) ([]byte, error)
}
