package controllers_test

import (
    "testing"

    "github.com/gin-gonic/gin"
)

func TestSignupLoginMe(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "kwame")

    w := doJSON(t, r, "GET", "/api/v1/auth/me", token, nil)
    if w.Code != 200 {
        t.Fatalf("me: status %d body %s", w.Code, w.Body.String())
    }
    body := decode(t, w)
    if body["username"] != "kwame" {
        t.Fatalf("me username = %v", body["username"])
    }
    if body["role"] != "admin" {
        t.Fatalf("me role = %v", body["role"])
    }
}

func TestSignupDuplicateUsername(t *testing.T) {
    _, r := setupRouter(t)
    loginAs(t, r, "ama")

    w := doJSON(t, r, "POST", "/api/v1/auth/signup", "", gin.H{
        "username": "ama",
        "password": "another123",
    })
    if w.Code != 409 {
        t.Fatalf("duplicate signup: status %d, want 409", w.Code)
    }
}

func TestLoginWrongPassword(t *testing.T) {
    _, r := setupRouter(t)
    loginAs(t, r, "yaw")

    w := doJSON(t, r, "POST", "/api/v1/auth/login", "", gin.H{
        "username": "yaw",
        "password": "wrongwrong",
    })
    if w.Code != 401 {
        t.Fatalf("wrong password: status %d, want 401", w.Code)
    }
}

func TestProtectedRoutesRequireToken(t *testing.T) {
    _, r := setupRouter(t)

    w := doJSON(t, r, "GET", "/api/v1/permits/search?q=x", "", nil)
    if w.Code != 401 {
        t.Fatalf("search without token: status %d, want 401", w.Code)
    }
}

func TestDeleteAccountKeepsIssuedPermits(t *testing.T) {
    db, r := setupRouter(t)
    token := loginAs(t, r, "efua")

    w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
        "student_id":      "S900",
        "name":            "Kofi Mensah",
        "validity_period": 10,
    })
    if w.Code != 201 {
        t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
    }

    w = doJSON(t, r, "DELETE", "/api/v1/auth/account", token, nil)
    if w.Code != 200 {
        t.Fatalf("delete account: status %d body %s", w.Code, w.Body.String())
    }

    // The permit survives with a dangling created_by.
    var count int64
    if err := db.Table("students").Where("student_id = ?", "S900").Count(&count).Error; err != nil {
        t.Fatalf("count: %v", err)
    }
    if count != 1 {
        t.Fatalf("permit rows = %d, want 1", count)
    }
}
