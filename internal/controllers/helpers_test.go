package controllers_test

import (
    "bytes"
    "encoding/json"
    "net/http/httptest"
    "path/filepath"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/glebarez/sqlite"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/config"
    "github.com/kojoasare/permit_backend_v1/internal/database"
    "github.com/kojoasare/permit_backend_v1/internal/routes"
)

func setupRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
    t.Helper()
    gin.SetMode(gin.TestMode)

    path := filepath.Join(t.TempDir(), "test.db")
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    if err := database.Migrate(db); err != nil {
        t.Fatalf("migrate: %v", err)
    }

    cfg := &config.Config{
        JWTSecret:    "test-secret",
        JWTExpiresIn: "60",
        DBPath:       path,
    }
    r := gin.New()
    routes.Register(r, db, cfg, nil, nil)
    return db, r
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

// loginAs signs up a fresh user (admin role so every route is reachable)
// and returns a bearer token.
func loginAs(t *testing.T, r *gin.Engine, username string) string {
    t.Helper()

    w := doJSON(t, r, "POST", "/api/v1/auth/signup", "", gin.H{
        "username": username,
        "password": "secret123",
        "role":     "admin",
    })
    if w.Code != 201 {
        t.Fatalf("signup %s: status %d body %s", username, w.Code, w.Body.String())
    }

    w = doJSON(t, r, "POST", "/api/v1/auth/login", "", gin.H{
        "username": username,
        "password": "secret123",
    })
    if w.Code != 200 {
        t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
    }
    token, _ := decode(t, w)["access_token"].(string)
    if token == "" {
        t.Fatalf("login %s: empty access_token", username)
    }
    return token
}
