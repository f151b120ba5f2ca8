package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrarijessie/j.money.api/internal/config"
	"github.com/ferrarijessie/j.money.api/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "j.money.api-test"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = 4 // keep the test fast
	return SetupRouter(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Code int            `json:"code"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

// TestAuthFlow walks signup, login, an authenticated request, logout and the
// rejection of the revoked token.
func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","password":"Passw0rd1","displayName":"Alice"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}
	apiKey, _ := decodeData(t, w)["apiKey"].(string)
	if apiKey == "" {
		t.Fatal("signup returned no apiKey")
	}

	// duplicate username, case-insensitive
	w = doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"username":"ALICE","password":"Passw0rd1"}`, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"Passw0rd1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	token, _ := decodeData(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	bearer := map[string]string{"Authorization": "Bearer " + token}
	w = doJSON(t, r, http.MethodGet, "/api/me", "", bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/me status = %d, body %s", w.Code, w.Body.String())
	}

	// the API key authenticates on its own
	w = doJSON(t, r, http.MethodGet, "/api/me", "", map[string]string{"X-Api-Key": apiKey})
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/me with api key status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", "", bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/me", "", bearer)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/me after logout status = %d, want 401", w.Code)
	}
}

// TestProtectedRoutesRequireAuth checks a sample of routes reject anonymous
// requests.
func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodGet, "/api/expense-types"},
		{http.MethodGet, "/api/summary/2024/9"},
		{http.MethodGet, "/api/logs"},
		{http.MethodGet, "/api/export/csv?year=2024"},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

// TestExpenseEndToEnd drives the expense type and entry CRUD through HTTP.
func TestExpenseEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","password":"Passw0rd1"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"Passw0rd1"}`, nil)
	token, _ := decodeData(t, w)["token"].(string)
	bearer := map[string]string{"Authorization": "Bearer " + token}

	w = doJSON(t, r, http.MethodPost, "/api/expense-types",
		`{"name":"Rent","category":"house","recurrent":true,"baseValue":"1200.00"}`, bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("create type status = %d, body %s", w.Code, w.Body.String())
	}

	// listing a period materializes the recurrent entry
	w = doJSON(t, r, http.MethodGet, "/api/expenses?year=2024&month=9", "", bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("period list status = %d, body %s", w.Code, w.Body.String())
	}
	items, _ := decodeData(t, w)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("period items = %d, want 1", len(items))
	}
	entry, _ := items[0].(map[string]any)
	if entry["typeName"] != "Rent" {
		t.Errorf("typeName = %v, want Rent", entry["typeName"])
	}
	if entry["value"] != "1200" && entry["value"] != "1200.00" {
		t.Errorf("value = %v, want 1200.00", entry["value"])
	}

	// unknown category is rejected
	w = doJSON(t, r, http.MethodPost, "/api/expense-types",
		`{"name":"X","category":"nonsense","baseValue":"1.00"}`, bearer)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad category status = %d, want 400", w.Code)
	}
}
