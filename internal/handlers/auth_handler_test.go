package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetpadmani/hennyenterpricebackend/internal/auth"
	"github.com/meetpadmani/hennyenterpricebackend/internal/config"
	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/middleware"
)

// newTestRouter points the handler layer at a throwaway sqlite database and
// wires the same route table as cmd/server.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db

	auth.Init("test-access-secret", "test-refresh-secret")
	Init(config.Config{BaseURL: "http://localhost:5000", UploadDir: t.TempDir()})

	r := gin.New()
	r.GET("/api/auth/check-admin", CheckAdmin)
	r.POST("/api/auth/setup", SetupAdmin)
	r.POST("/api/auth/login", Login)
	r.POST("/api/auth/refresh", RefreshToken)
	r.GET("/api/auth/me", middleware.AuthMiddleware(), GetMe)

	api := r.Group("/api", middleware.AuthMiddleware())
	api.GET("/products", GetAllProducts)
	api.POST("/products", CreateProduct)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAdminSetupAndLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	// No admin yet
	w := doJSON(t, r, http.MethodGet, "/api/auth/check-admin", "", nil)
	if w.Code != http.StatusOK || decode(t, w)["adminExists"] != false {
		t.Fatalf("check-admin before setup: %d %s", w.Code, w.Body.String())
	}

	// Password shorter than 6 chars is rejected
	w = doJSON(t, r, http.MethodPost, "/api/auth/setup", "", gin.H{"email": "owner@henny.in", "password": "short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password accepted: %d", w.Code)
	}

	// Bootstrap the admin
	w = doJSON(t, r, http.MethodPost, "/api/auth/setup", "", gin.H{"email": "owner@henny.in", "password": "secret123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("setup: %d %s", w.Code, w.Body.String())
	}
	setup := decode(t, w)
	if tok, _ := setup["accessToken"].(string); tok == "" {
		t.Fatalf("setup did not return tokens: %v", setup)
	}

	// Second setup attempt is rejected
	w = doJSON(t, r, http.MethodPost, "/api/auth/setup", "", gin.H{"email": "other@henny.in", "password": "secret123"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second setup: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/check-admin", "", nil)
	if decode(t, w)["adminExists"] != true {
		t.Fatalf("check-admin after setup: %s", w.Body.String())
	}

	// Wrong password
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "owner@henny.in", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", w.Code)
	}

	// Correct login returns a token pair
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "owner@henny.in", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	login := decode(t, w)
	accessToken, _ := login["accessToken"].(string)
	refreshToken, _ := login["refreshToken"].(string)
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("login did not return tokens: %v", login)
	}

	// /me with and without the token
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", accessToken, nil)
	if w.Code != http.StatusOK || decode(t, w)["email"] != "owner@henny.in" {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", w.Code)
	}

	// Refresh rotates the pair
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": refreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	refreshed := decode(t, w)
	if tok, _ := refreshed["accessToken"].(string); tok == "" {
		t.Fatalf("refresh did not return tokens: %v", refreshed)
	}

	// An access token is not a refresh token
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": accessToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("access token accepted for refresh: %d", w.Code)
	}
}

func TestDuplicateSKURejected(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/setup", "", gin.H{"email": "owner@henny.in", "password": "secret123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("setup: %d", w.Code)
	}
	token, _ := decode(t, w)["accessToken"].(string)

	product := gin.H{"name": "Rod", "sku": "SKU-1", "price": 10.0, "gstRate": 18.0, "stock": 5}
	w = doJSON(t, r, http.MethodPost, "/api/products", token, product)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/products", token, product)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate SKU: %d %s", w.Code, w.Body.String())
	}

	// Products without SKU/barcode do not collide with each other
	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodPost, "/api/products", token, gin.H{"name": "Loose Item", "price": 1.0, "gstRate": 0.0, "stock": 1})
		if w.Code != http.StatusCreated {
			t.Fatalf("create unlabelled product #%d: %d %s", i, w.Code, w.Body.String())
		}
	}
}
