package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	httpapi "school-canteen/internal/api/http"
	"school-canteen/internal/domain"
	"school-canteen/internal/mocks"
	"school-canteen/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type handlerFixture struct {
	catalog  *mocks.CatalogRepository
	carts    *mocks.CartStore
	users    *mocks.UserRepository
	orders   *mocks.OrderRepository
	qr       *mocks.QRGenerator
	sessions *mocks.SessionStore
	router   http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	fixture := &handlerFixture{
		catalog:  mocks.NewCatalogRepository(t),
		carts:    mocks.NewCartStore(t),
		users:    mocks.NewUserRepository(t),
		orders:   mocks.NewOrderRepository(t),
		qr:       mocks.NewQRGenerator(t),
		sessions: mocks.NewSessionStore(t),
	}

	handler := httpapi.NewHandler(
		service.NewCatalogService(fixture.catalog),
		service.NewCartService(fixture.carts, fixture.catalog),
		service.NewAuthService(fixture.users),
		service.NewOrderService(fixture.orders, fixture.catalog, fixture.carts, nil, fixture.qr),
		fixture.sessions,
	)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	fixture.router = r
	return fixture
}

func (f *handlerFixture) session(session *domain.Session) {
	session.Token = "tok"
	f.sessions.On("GetSession", mock.Anything, "tok").Return(session, nil)
}

func (f *handlerFixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: "canteen_session", Value: "tok"})

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHealthCheckHandler(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.session(&domain.Session{})

	w := fixture.do("GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "canteen", decodeJSON(t, w)["service"])
}

func TestAddToCartHandler(t *testing.T) {
	t.Run("returns new cart count", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{})
		fixture.carts.On("AddToCart", mock.Anything, "tok", "3", 2).Return(5, nil).Once()

		w := fixture.do("POST", "/add_to_cart", url.Values{"item_id": {"3"}, "quantity": {"2"}})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(5), body["cart_count"])
	})

	t.Run("defaults quantity to one", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{})
		fixture.carts.On("AddToCart", mock.Anything, "tok", "3", 1).Return(1, nil).Once()

		w := fixture.do("POST", "/add_to_cart", url.Values{"item_id": {"3"}})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing item_id fails", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{})

		w := fixture.do("POST", "/add_to_cart", url.Values{"quantity": {"2"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, decodeJSON(t, w)["success"])
	})
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("empty cart redirects to cart", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 2, Username: "ivanov", Role: domain.RoleStudent})
		fixture.carts.On("GetCart", mock.Anything, "tok").Return(domain.Cart{}, nil).Once()
		fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

		w := fixture.do("POST", "/checkout", url.Values{})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))
		fixture.orders.AssertNotCalled(t, "CreateOrder", mock.Anything)
	})

	t.Run("anonymous visitor redirects to login", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{})
		fixture.carts.On("GetCart", mock.Anything, "tok").Return(domain.Cart{"3": 2}, nil).Once()
		fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

		w := fixture.do("POST", "/checkout", url.Values{})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("creates order and redirects to order history", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 2, Username: "ivanov", Role: domain.RoleStudent})
		fixture.carts.On("GetCart", mock.Anything, "tok").Return(domain.Cart{"3": 2}, nil).Twice()
		fixture.catalog.On("GetMenuItem", 3).
			Return(&domain.MenuItem{ID: 3, Name: "Dried fruit compote", Price: 35.0, Available: true}, nil).Once()
		fixture.orders.On("CreateOrder", mock.MatchedBy(func(order *domain.Order) bool {
			return order.UserID == 2 && order.TotalPrice == 70.0
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Order).ID = 7
		}).Return(nil).Once()
		fixture.qr.On("Generate", 7).Return([]byte("png"), nil).Once()
		fixture.orders.On("SaveQRCode", 7, []byte("png")).Return(nil).Once()
		fixture.carts.On("ClearCart", mock.Anything, "tok").Return(nil).Once()
		fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

		w := fixture.do("POST", "/checkout", url.Values{})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/my_orders", w.Header().Get("Location"))
	})
}

func TestMyOrdersHandler_RequiresLogin(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.session(&domain.Session{})
	fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

	w := fixture.do("GET", "/my_orders", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.session(&domain.Session{})
	fixture.users.On("UserExists", "ivanov", "ivanov@school.example").Return(true, nil).Once()
	fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

	w := fixture.do("POST", "/register", url.Values{
		"username": {"ivanov"},
		"email":    {"ivanov@school.example"},
		"password": {"secret"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	fixture.users.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestAdminOrdersHandler_Forbidden(t *testing.T) {
	fixture := newHandlerFixture(t)
	fixture.session(&domain.Session{UserID: 2, Username: "ivanov", Role: domain.RoleStudent})
	fixture.sessions.On("PushFlash", mock.Anything, "tok", mock.Anything).Return(nil).Once()

	w := fixture.do("GET", "/admin/orders", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	fixture.orders.AssertNotCalled(t, "ListOrders")
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	t.Run("student session is rejected", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 2, Username: "ivanov", Role: domain.RoleStudent})

		w := fixture.do("POST", "/admin/update_order_status", url.Values{
			"order_id": {"12"},
			"status":   {"ready"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeJSON(t, w)["success"])
		fixture.orders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
	})

	t.Run("admin session updates the order", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 1, Username: "admin", Role: domain.RoleAdmin})
		fixture.orders.On("UpdateOrderStatus", 12, "ready").Return(int64(1), nil).Once()

		w := fixture.do("POST", "/admin/update_order_status", url.Values{
			"order_id": {"12"},
			"status":   {"ready"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeJSON(t, w)["success"])
	})

	t.Run("unknown order reports failure", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 1, Username: "admin", Role: domain.RoleAdmin})
		fixture.orders.On("UpdateOrderStatus", 404, "ready").Return(int64(0), nil).Once()

		w := fixture.do("POST", "/admin/update_order_status", url.Values{
			"order_id": {"404"},
			"status":   {"ready"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeJSON(t, w)["success"])
	})
}

func TestOrderQRCodeHandler(t *testing.T) {
	t.Run("owner gets the png", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 2, Username: "ivanov", Role: domain.RoleStudent})
		fixture.orders.On("GetOrder", 7).Return(&domain.Order{ID: 7, UserID: 2}, nil).Once()
		fixture.orders.On("GetQRCode", 7).Return([]byte("png"), nil).Once()

		w := fixture.do("GET", "/orders/7/qrcode", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		fixture := newHandlerFixture(t)
		fixture.session(&domain.Session{UserID: 3, Username: "petrov", Role: domain.RoleStudent})
		fixture.orders.On("GetOrder", 7).Return(&domain.Order{ID: 7, UserID: 2}, nil).Once()

		w := fixture.do("GET", "/orders/7/qrcode", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
