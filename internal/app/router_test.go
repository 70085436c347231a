package app

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/config"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/repository/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := memory.NewStore()
	store.AddCompany(catalog.Company{Name: "Euro Plast Ltd", DefaultWarehouse: "Main - EP"})
	store.AddWarehouse(catalog.Warehouse{Name: "Main - EP", Company: "Euro Plast Ltd"})
	store.AddItem(catalog.Item{ItemCode: "BOWL-01", ItemName: "Mixing Bowl", ItemGroup: "Kitchenware", StandardRate: decimal.NewFromInt(12)})

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := jwt.NewManager(priv, jwt.Config{Issuer: "storefront", Audience: "storefront-users", TTL: time.Hour})

	cfg := config.AppConfig{DefaultCurrency: "USD", SiteTitle: "Euro Plast", SiteURL: "https://europlast.example"}
	handlers, _ := buildHandlers(cfg, infra{
		Set:       store.Set(),
		CartStore: memory.NewCartStore(),
		Tokens:    tokens.Generator,
		Verifier:  tokens.Verifier,
	}, logger)

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(logger), middleware.RequestIDMiddleware())
	SetupRouter(engine, logger, handlers)
	return &testServer{engine: engine, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_RequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/health", nil, http.Header{middleware.RequestIDHeader: {"req-42"}})
	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
}

func orderBody() map[string]any {
	return map[string]any{
		"full_name":      "Jane Doe",
		"email":          "jane@example.com",
		"phone":          "+254700000000",
		"address_line1":  "1 Market Street",
		"city":           "Nairobi",
		"country":        "Kenya",
		"items":          `[{"item_code":"BOWL-01","qty":2}]`,
		"payment_method": "M-Pesa",
		"update_profile": 0,
	}
}

func TestRouter_GuestCheckout(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/checkout/orders", orderBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var result struct {
		OK    bool   `json:"ok"`
		Order string `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.OK)
	assert.NotEmpty(t, result.Order)
	assert.Equal(t, 1, s.store.OrderCount())
	assert.Equal(t, 1, s.store.CustomerCount("jane@example.com"))
}

func TestRouter_CheckoutValidationIs400(t *testing.T) {
	s := newTestServer(t)
	body := orderBody()
	delete(body, "full_name")

	rec, env := s.do(t, http.MethodPost, "/api/v1/checkout/orders", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: full_name", env.Message)
	assert.Equal(t, 0, s.store.OrderCount())
}

func TestRouter_ProfileRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/profile", nil, http.Header{"Authorization": {"Bearer not-a-token"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SignupLoginProfile(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/signup", map[string]any{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"password":  "correct horse",
		"is_trader": "0",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPost, "/api/v1/signup", map[string]any{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"password":  "another",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)

	auth := http.Header{"Authorization": {"Bearer " + login.AccessToken}}
	rec, env = s.do(t, http.MethodGet, "/api/v1/profile", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "jane@example.com", profile.Email)

	rec, env = s.do(t, http.MethodGet, "/api/v1/pages/redirect/signup", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"page":"signup","redirect_to":"/portal"}`, string(env.Data))
}

func TestRouter_CartRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"item_code": "BOWL-01", "qty": 3}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cartID := rec.Header().Get("X-Cart-ID")
	require.NotEmpty(t, cartID)

	rec, env := s.do(t, http.MethodGet, "/api/v1/cart", nil, http.Header{"X-Cart-Id": {cartID}})
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Items []struct {
			ItemCode string `json:"item_code"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "BOWL-01", summary.Items[0].ItemCode)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"qty": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GuestPageGuards(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/pages/redirect/addresses", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"page":"addresses","redirect_to":"/login?redirect-to=/addresses"}`, string(env.Data))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/pages/redirect/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/pages/portal", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
