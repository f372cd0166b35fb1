package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/app/controllers"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
	"github.com/shashiranjanraj/kirana/pkg/router"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the handler tests.

type memUsers struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByEmailAndAnswer(_ context.Context, email, answer string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && u.Answer == answer {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) RoleByID(_ context.Context, id primitive.ObjectID) (int, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return u.Role, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memUsers) Update(_ context.Context, user *models.User) error {
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	return nil
}

type memOrders struct {
	orders []models.Order
}

func (m *memOrders) Insert(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memOrders) ByBuyer(_ context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.Buyer == buyer {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) All(_ context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), m.orders...), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

// authAPI mounts the auth routes the way app/routes does, backed by
// in-memory stores.
func authAPI(users *memUsers, orders *memOrders) http.Handler {
	authSvc := services.NewAuthService(users)
	orderSvc := services.NewOrderService(orders, users)
	ac := controllers.NewAuthController(authSvc, orderSvc)

	r := router.New()
	r.Post("/register", "", ac.Register)
	r.Post("/login", "", ac.Login)
	r.Post("/forgot-password", "", ac.ForgotPassword)
	r.Get("/user-auth", "", ac.Check, middleware.Authenticate)
	r.Get("/orders", "", ac.Orders, middleware.Authenticate)
	return r.Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body map[string]interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded),
		"response was not JSON: %s", rec.Body.String())
	return rec, decoded
}

func registerBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
		"phone":    "9876543210",
		"address":  map[string]string{"city": "Pune"},
		"answer":   "blue",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})

	rec, body := postJSON(t, h, "/register", registerBody())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "asha@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "question")
}

func TestRegisterTwiceEndpoint(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})

	rec, _ := postJSON(t, h, "/register", registerBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := postJSON(t, h, "/register", registerBody())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Already Registered Please Login", body["message"])
}

func TestRegisterValidationErrors(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})

	rec, body := postJSON(t, h, "/register", map[string]interface{}{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body, "errors")
}

func TestRegisterRequiresAddress(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})

	body := registerBody()
	delete(body, "address")

	rec, decoded := postJSON(t, h, "/register", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decoded["success"])

	errs, ok := decoded["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "address")

	// An explicit null is rejected the same way as an absent key.
	body = registerBody()
	body["address"] = nil

	rec, decoded = postJSON(t, h, "/register", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok = decoded["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "address")
}

func TestLoginEndpoint(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})
	postJSON(t, h, "/register", registerBody())

	// Unknown email is a 404.
	rec, _ := postJSON(t, h, "/login", map[string]interface{}{
		"email": "nobody@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Wrong password answers 200 with success=false.
	rec, body := postJSON(t, h, "/login", map[string]interface{}{
		"email": "asha@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid Password", body["message"])

	// Correct credentials return the user and a token.
	rec, body = postJSON(t, h, "/login", map[string]interface{}{
		"email": "asha@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
}

func TestForgotPasswordEndpoint(t *testing.T) {
	h := authAPI(newMemUsers(), &memOrders{})
	postJSON(t, h, "/register", registerBody())

	rec, body := postJSON(t, h, "/forgot-password", map[string]interface{}{
		"email": "asha@example.com", "answer": "green", "newPassword": "newsecret",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Wrong Email or Security Answer", body["message"])

	rec, _ = postJSON(t, h, "/forgot-password", map[string]interface{}{
		"email": "asha@example.com", "answer": "blue", "newPassword": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = postJSON(t, h, "/login", map[string]interface{}{
		"email": "asha@example.com", "password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardedRoutes(t *testing.T) {
	users := newMemUsers()
	h := authAPI(users, &memOrders{})
	postJSON(t, h, "/register", registerBody())

	req := httptest.NewRequest(http.MethodGet, "/user-auth", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, body := postJSON(t, h, "/login", map[string]interface{}{
		"email": "asha@example.com", "password": "secret123",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	req = httptest.NewRequest(http.MethodGet, "/user-auth", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
