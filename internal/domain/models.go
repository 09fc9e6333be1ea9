package domain

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Order status defaults. The status column is an open string: the admin
// endpoint accepts any non-empty value, these are just the values the UI
// offers.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never plaintext after registration
	Role     string `json:"role"`
	Grade    string `json:"grade,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type MenuItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  int     `json:"category_id"`
	Available   bool    `json:"available"`
}

// OrderItem is the line-item snapshot serialized into the orders row. Name
// and price are captured at checkout time, not at add-to-cart time.
type OrderItem struct {
	ItemID   int     `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID         int         `json:"id"`
	UserID     int         `json:"user_id"`
	Username   string      `json:"username,omitempty"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status"`
	OrderDate  time.Time   `json:"order_date"`
}

// Cart maps a menu item id (string, as stored in the session hash) to the
// requested quantity. It lives only in the session store.
type Cart map[string]int

func (c Cart) Count() int {
	count := 0
	for _, quantity := range c {
		count += quantity
	}
	return count
}

// CartLine is a cart entry resolved against current menu data for display.
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
	Total    float64  `json:"total"`
}

// CategoryMenu groups the available items of one category for the menu page.
type CategoryMenu struct {
	Category Category   `json:"category"`
	Items    []MenuItem `json:"items"`
}

// Session is the per-visitor state correlated by the cookie token. A zero
// UserID means an anonymous visitor.
type Session struct {
	Token    string `json:"-"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Session) Authenticated() bool {
	return s.UserID > 0
}

func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == RoleAdmin
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

const (
	EventOrderCreated  = "order_created"
	EventStatusUpdated = "status_updated"
)

// OrderEvent is published to the order stream for downstream consumers.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    int       `json:"order_id"`
	UserID     int       `json:"user_id"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}
