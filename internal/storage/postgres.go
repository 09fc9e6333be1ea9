package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"school-canteen/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			grade TEXT,
			phone TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			category_id INTEGER REFERENCES categories(id),
			available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			items JSONB NOT NULL,
			total_price DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			qr_code BYTEA
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}

	return nil
}

// Seed loads the fixed sample catalog and accounts on a fresh database. It is
// a no-op once any category exists.
func (r *PostgresRepository) Seed() error {
	var seeded bool
	if err := r.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM categories)").Scan(&seeded); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if seeded {
		return nil
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	categories := []domain.Category{
		{Name: "Breakfast", Description: "Wholesome breakfasts"},
		{Name: "Main dishes", Description: "Hot lunches"},
		{Name: "Drinks", Description: "Juices and compotes"},
		{Name: "Bakery", Description: "Fresh pastry"},
	}
	categoryIDs := make([]int, 0, len(categories))
	for _, category := range categories {
		var id int
		if err := tx.QueryRow(
			"INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id",
			category.Name, category.Description,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed category %q: %w", category.Name, err)
		}
		categoryIDs = append(categoryIDs, id)
	}

	items := []domain.MenuItem{
		{Name: "Cheese omelette", Description: "Omelette with cheese and herbs", Price: 120.0, CategoryID: categoryIDs[0]},
		{Name: "Milk porridge", Description: "Oatmeal with fruit", Price: 85.0, CategoryID: categoryIDs[0]},
		{Name: "Chicken cutlet with mash", Description: "Cutlet with mashed potatoes", Price: 150.0, CategoryID: categoryIDs[1]},
		{Name: "Dried fruit compote", Description: "Refreshing drink", Price: 35.0, CategoryID: categoryIDs[2]},
		{Name: "Poppy seed bun", Description: "Freshly baked bun", Price: 40.0, CategoryID: categoryIDs[3]},
	}
	for _, item := range items {
		if _, err := tx.Exec(
			"INSERT INTO menu_items (name, description, price, category_id, available) VALUES ($1, $2, $3, $4, TRUE)",
			item.Name, item.Description, item.Price, item.CategoryID,
		); err != nil {
			return fmt.Errorf("seed menu item %q: %w", item.Name, err)
		}
	}

	accounts := []struct {
		user     domain.User
		password string
	}{
		{domain.User{Username: "admin", Email: "admin@school.example", Role: domain.RoleAdmin}, "admin123"},
		{domain.User{Username: "ivanov", Email: "ivanov@school.example", Role: domain.RoleStudent, Grade: "10A"}, "password123"},
	}
	for _, account := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO users (username, email, password, role, grade) VALUES ($1, $2, $3, $4, NULLIF($5, ''))",
			account.user.Username, account.user.Email, string(hash), account.user.Role, account.user.Grade,
		); err != nil {
			return fmt.Errorf("seed user %q: %w", account.user.Username, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) CreateUser(user *domain.User) error {
	return r.DB.QueryRow(
		"INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id",
		user.Username, user.Email, user.Password, user.Role,
	).Scan(&user.ID)
}

func (r *PostgresRepository) GetUserByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRow(`
		SELECT id, username, email, password, role, COALESCE(grade, ''), COALESCE(phone, '')
		FROM users
		WHERE username = $1`, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.Grade, &user.Phone)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists is a single combined lookup: a collision on either column is
// reported the same way.
func (r *PostgresRepository) UserExists(username, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) ListCategories() ([]domain.Category, error) {
	rows, err := r.DB.Query("SELECT id, name, COALESCE(description, '') FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			continue
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *PostgresRepository) ListAvailableItems() ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(description, ''), price, COALESCE(category_id, 0), available
		FROM menu_items
		WHERE available
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMenuItems(rows), nil
}

func (r *PostgresRepository) ListFeaturedItems(limit int) ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(description, ''), price, COALESCE(category_id, 0), available
		FROM menu_items
		WHERE available
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMenuItems(rows), nil
}

func scanMenuItems(rows *sql.Rows) []domain.MenuItem {
	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.Available); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (r *PostgresRepository) GetMenuItem(id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRow(`
		SELECT id, name, COALESCE(description, ''), price, COALESCE(category_id, 0), available
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.Available)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateOrder persists the order with its line items serialized into the row.
// The items column is a snapshot; it is never joined against live menu data.
func (r *PostgresRepository) CreateOrder(order *domain.Order) error {
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	payload, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("serialize order items: %w", err)
	}

	return r.DB.QueryRow(`
		INSERT INTO orders (user_id, items, total_price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_date`,
		order.UserID, payload, order.TotalPrice, order.Status,
	).Scan(&order.ID, &order.OrderDate)
}

func (r *PostgresRepository) GetOrder(id int) (*domain.Order, error) {
	var order domain.Order
	var payload []byte
	err := r.DB.QueryRow(`
		SELECT id, COALESCE(user_id, 0), items, total_price, status, order_date
		FROM orders
		WHERE id = $1`, id).
		Scan(&order.ID, &order.UserID, &payload, &order.TotalPrice, &order.Status, &order.OrderDate)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &order.Items); err != nil {
		return nil, fmt.Errorf("deserialize order %d items: %w", order.ID, err)
	}
	return &order, nil
}

func (r *PostgresRepository) ListUserOrders(userID int) ([]domain.Order, error) {
	rows, err := r.DB.Query(`
		SELECT id, COALESCE(user_id, 0), items, total_price, status, order_date
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var payload []byte
		if err := rows.Scan(&order.ID, &order.UserID, &payload, &order.TotalPrice, &order.Status, &order.OrderDate); err != nil {
			continue
		}
		if err := json.Unmarshal(payload, &order.Items); err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrders() ([]domain.Order, error) {
	rows, err := r.DB.Query(`
		SELECT o.id, COALESCE(o.user_id, 0), COALESCE(u.username, ''), o.items, o.total_price, o.status, o.order_date
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.order_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var payload []byte
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &payload, &order.TotalPrice, &order.Status, &order.OrderDate); err != nil {
			continue
		}
		if err := json.Unmarshal(payload, &order.Items); err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *PostgresRepository) UpdateOrderStatus(id int, status string) (int64, error) {
	result, err := r.DB.Exec("UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) SaveQRCode(orderID int, qr []byte) error {
	_, err := r.DB.Exec("UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(orderID int) ([]byte, error) {
	var qrCode []byte
	if err := r.DB.QueryRow("SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode); err != nil {
		return nil, err
	}
	return qrCode, nil
}
