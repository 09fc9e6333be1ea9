package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"school-canteen/internal/domain"
	"school-canteen/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Catalog  service.CatalogServiceInterface
	Carts    service.CartServiceInterface
	Auth     service.AuthServiceInterface
	Orders   service.OrderServiceInterface
	Sessions service.SessionStore
}

func NewHandler(catalog service.CatalogServiceInterface, carts service.CartServiceInterface, auth service.AuthServiceInterface, orders service.OrderServiceInterface, sessions service.SessionStore) *Handler {
	return &Handler{
		Catalog:  catalog,
		Carts:    carts,
		Auth:     auth,
		Orders:   orders,
		Sessions: sessions,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.sessionMiddleware)

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/", h.index).Methods("GET")
	r.HandleFunc("/menu", h.menu).Methods("GET")
	r.HandleFunc("/cart", h.cart).Methods("GET")
	r.HandleFunc("/add_to_cart", h.addToCart).Methods("POST")
	r.HandleFunc("/checkout", h.checkoutPage).Methods("GET")
	r.HandleFunc("/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/register", h.registerPage).Methods("GET")
	r.HandleFunc("/register", h.register).Methods("POST")
	r.HandleFunc("/login", h.loginPage).Methods("GET")
	r.HandleFunc("/login", h.login).Methods("POST")
	r.HandleFunc("/logout", h.logout).Methods("GET")

	r.HandleFunc("/my_orders", h.myOrders).Methods("GET")
	r.HandleFunc("/orders/{id}/qrcode", h.orderQRCode).Methods("GET")

	r.HandleFunc("/admin/orders", h.adminOrders).Methods("GET")
	r.HandleFunc("/admin/update_order_status", h.updateOrderStatus).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "canteen",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	categories, featured, err := h.Catalog.Home()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "index.html", map[string]interface{}{
		"Categories": categories,
		"Featured":   featured,
	})
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Catalog.Menu()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "menu.html", map[string]interface{}{
		"Sections": sections,
	})
}

func (h *Handler) cart(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	lines, total, err := h.Carts.View(r.Context(), session.Token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "cart.html", map[string]interface{}{
		"Lines": lines,
		"Total": total,
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
		return
	}

	itemID := r.FormValue("item_id")
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
		return
	}

	quantity := 1
	if raw := r.FormValue("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
			return
		}
		quantity = parsed
	}

	session := sessionFrom(r)
	count, err := h.Carts.Add(r.Context(), session.Token, itemID, quantity)
	if err != nil {
		log.Printf("[canteen] add to cart failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"cart_count": count,
	})
}

func (h *Handler) checkoutPage(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	count, err := h.Carts.Count(r.Context(), session.Token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if count == 0 {
		h.flashAndRedirect(w, r, "Your cart is empty", domain.FlashWarning, "/cart")
		return
	}

	lines, total, err := h.Carts.View(r.Context(), session.Token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "checkout.html", map[string]interface{}{
		"Lines": lines,
		"Total": total,
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	// The empty-cart check comes before the authentication check on purpose.
	count, err := h.Carts.Count(r.Context(), session.Token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if count == 0 {
		h.flashAndRedirect(w, r, "Your cart is empty", domain.FlashWarning, "/cart")
		return
	}

	if !session.Authenticated() {
		h.flashAndRedirect(w, r, "Please sign in", domain.FlashWarning, "/login")
		return
	}

	order, err := h.Orders.Checkout(r.Context(), session.Token, session.UserID)
	if errors.Is(err, service.ErrEmptyCart) {
		h.flashAndRedirect(w, r, "Your cart is empty", domain.FlashWarning, "/cart")
		return
	}
	if err != nil {
		log.Printf("[canteen] checkout failed: %v", err)
		h.flashAndRedirect(w, r, "Checkout failed, please try again", domain.FlashError, "/cart")
		return
	}

	h.flashAndRedirect(w, r, "Order #"+strconv.Itoa(order.ID)+" placed!", domain.FlashSuccess, "/my_orders")
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	if username == "" || email == "" || password == "" {
		h.flashAndRedirect(w, r, "All fields are required", domain.FlashError, "/register")
		return
	}

	err := h.Auth.Register(username, email, password)
	if errors.Is(err, service.ErrUserExists) {
		h.flashAndRedirect(w, r, "User already exists", domain.FlashError, "/register")
		return
	}
	if err != nil {
		log.Printf("[canteen] registration failed: %v", err)
		h.flashAndRedirect(w, r, "Registration failed, please try again", domain.FlashError, "/register")
		return
	}

	h.flashAndRedirect(w, r, "Registration successful! Please sign in.", domain.FlashSuccess, "/login")
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Auth.Login(username, password)
	if err != nil {
		// Same message for unknown username and wrong password.
		if err := h.Sessions.PushFlash(r.Context(), session.Token, domain.Flash{
			Message: "Invalid username or password",
			Level:   domain.FlashError,
		}); err != nil {
			log.Printf("[canteen] failed to push flash: %v", err)
		}
		h.render(w, r, "login.html", nil)
		return
	}

	session.UserID = user.ID
	session.Username = user.Username
	session.Role = user.Role
	if err := h.Sessions.SetSession(r.Context(), session); err != nil {
		log.Printf("[canteen] failed to persist session: %v", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	h.flashAndRedirect(w, r, "Welcome, "+user.Username+"!", domain.FlashSuccess, "/")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if err := h.Sessions.ClearSession(r.Context(), session.Token); err != nil {
		log.Printf("[canteen] failed to clear session: %v", err)
	}
	h.flashAndRedirect(w, r, "You have been signed out", domain.FlashInfo, "/")
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if !session.Authenticated() {
		h.flashAndRedirect(w, r, "Please sign in", domain.FlashWarning, "/login")
		return
	}

	orders, err := h.Orders.UserOrders(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "my_orders.html", map[string]interface{}{
		"Orders": orders,
	})
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if !session.Authenticated() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.Get(orderID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.UserID != session.UserID && !session.IsAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	qr, err := h.Orders.QRCode(orderID)
	if err != nil || len(qr) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func (h *Handler) adminOrders(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if !session.IsAdmin() {
		h.flashAndRedirect(w, r, "Access denied", domain.FlashError, "/")
		return
	}

	orders, err := h.Orders.AllOrders()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_orders.html", map[string]interface{}{
		"Orders": orders,
		"Statuses": []string{
			domain.StatusPending,
			domain.StatusPreparing,
			domain.StatusReady,
			domain.StatusCompleted,
		},
	})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	if !session.IsAdmin() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}

	orderID, err := strconv.Atoi(r.FormValue("order_id"))
	status := r.FormValue("status")
	if err != nil || status == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}

	if err := h.Orders.UpdateStatus(r.Context(), orderID, status); err != nil {
		if !errors.Is(err, service.ErrOrderNotFound) {
			log.Printf("[canteen] status update failed: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
