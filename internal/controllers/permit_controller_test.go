package controllers_test

import (
    "net/url"
    "testing"

    "github.com/gin-gonic/gin"
)

func TestCreateVerifyRevokeFlow(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
        "student_id":      "S100",
        "name":            "Abena Owusu",
        "email":           "",
        "course":          "BSc IT",
        "validity_period": 30,
    })
    if w.Code != 201 {
        t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
    }
    created := decode(t, w)
    code, _ := created["permit_code"].(string)
    if len(code) != 4 {
        t.Fatalf("permit_code = %q, want 4 characters", code)
    }
    if qr, _ := created["qr_code"].(string); qr == "" {
        t.Fatal("qr_code missing from create response")
    }

    // The returned plaintext verifies against the stored hash.
    w = doJSON(t, r, "GET", "/api/v1/permits/verify?code="+url.QueryEscape(code), "", nil)
    if w.Code != 200 {
        t.Fatalf("verify: status %d body %s", w.Code, w.Body.String())
    }
    body := decode(t, w)
    if body["valid"] != true {
        t.Fatalf("verify valid = %v, want true", body["valid"])
    }
    student, _ := body["student"].(map[string]any)
    if student["student_id"] != "S100" {
        t.Fatalf("verify student_id = %v, want S100", student["student_id"])
    }

    // Revoke, then the same code must come back invalid with no hint
    // that it ever existed.
    w = doJSON(t, r, "POST", "/api/v1/permits/S100/revoke", token, nil)
    if w.Code != 200 {
        t.Fatalf("revoke: status %d body %s", w.Code, w.Body.String())
    }
    if decode(t, w)["rows_affected"] != float64(1) {
        t.Fatal("revoke did not affect the row")
    }

    w = doJSON(t, r, "GET", "/api/v1/permits/verify?code="+url.QueryEscape(code), "", nil)
    if w.Code != 200 {
        t.Fatalf("verify after revoke: status %d", w.Code)
    }
    body = decode(t, w)
    if body["valid"] != false {
        t.Fatalf("revoked code verified as %v, want false", body["valid"])
    }
    if _, leaked := body["student"]; leaked {
        t.Fatal("revoked verification leaked the student record")
    }
}

func TestCreateDuplicateStudentID(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    for i, want := range []int{201, 409} {
        w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
            "student_id":      "S200",
            "validity_period": 30,
        })
        if w.Code != want {
            t.Fatalf("insert %d: status %d, want %d (body %s)", i+1, w.Code, want, w.Body.String())
        }
    }
}

func TestRevokeIdempotent(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
        "student_id":      "S300",
        "validity_period": 30,
    })
    if w.Code != 201 {
        t.Fatalf("create: status %d", w.Code)
    }

    w = doJSON(t, r, "POST", "/api/v1/permits/S300/revoke", token, nil)
    if w.Code != 200 || decode(t, w)["rows_affected"] != float64(1) {
        t.Fatalf("first revoke: status %d body %s", w.Code, w.Body.String())
    }

    // Second revoke is a no-op success; rows_affected exposes it.
    w = doJSON(t, r, "POST", "/api/v1/permits/S300/revoke", token, nil)
    if w.Code != 200 || decode(t, w)["rows_affected"] != float64(0) {
        t.Fatalf("second revoke: status %d body %s", w.Code, w.Body.String())
    }

    // Unknown student behaves the same as already-revoked.
    w = doJSON(t, r, "POST", "/api/v1/permits/NOPE/revoke", token, nil)
    if w.Code != 200 || decode(t, w)["rows_affected"] != float64(0) {
        t.Fatalf("unknown revoke: status %d body %s", w.Code, w.Body.String())
    }

    w = doJSON(t, r, "GET", "/api/v1/permits/S300", token, nil)
    if w.Code != 200 {
        t.Fatalf("fetch: status %d", w.Code)
    }
    if decode(t, w)["status"] != "revoked" {
        t.Fatal("status did not stay revoked")
    }
}

func TestVerifyRequiresCode(t *testing.T) {
    _, r := setupRouter(t)

    w := doJSON(t, r, "GET", "/api/v1/permits/verify", "", nil)
    if w.Code != 400 {
        t.Fatalf("empty code: status %d, want 400", w.Code)
    }
    if decode(t, w)["valid"] != false {
        t.Fatal("empty code did not report valid:false")
    }
}

func TestValidityUnknownStudent(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    w := doJSON(t, r, "GET", "/api/v1/permits/NOPE/validity", token, nil)
    if w.Code != 200 {
        t.Fatalf("validity: status %d", w.Code)
    }
    if decode(t, w)["exists"] != false {
        t.Fatal("unknown student did not report exists:false")
    }
}

// The ID-based validity check reveals revocation even though code-based
// verification hides it.
func TestValidityReportsRevoked(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
        "student_id":      "S400",
        "validity_period": 30,
    })
    if w.Code != 201 {
        t.Fatalf("create: status %d", w.Code)
    }
    if w := doJSON(t, r, "POST", "/api/v1/permits/S400/revoke", token, nil); w.Code != 200 {
        t.Fatalf("revoke: status %d", w.Code)
    }

    w = doJSON(t, r, "GET", "/api/v1/permits/S400/validity", token, nil)
    body := decode(t, w)
    if body["exists"] != true {
        t.Fatal("validity exists = false")
    }
    if body["status"] != "revoked" {
        t.Fatalf("validity status = %v, want revoked", body["status"])
    }
    if body["is_expired"] != false {
        t.Fatal("fresh revoked permit reported expired")
    }
}

func TestFetchAndReceipt(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
        "student_id":      "S500",
        "name":            "Yaw Darko",
        "course":          "BSc Nursing",
        "amount_paid":     50,
        "validity_period": 30,
    })
    if w.Code != 201 {
        t.Fatalf("create: status %d", w.Code)
    }
    code := decode(t, w)["permit_code"].(string)

    w = doJSON(t, r, "GET", "/api/v1/permits/S500/receipt", token, nil)
    if w.Code != 200 {
        t.Fatalf("receipt: status %d body %s", w.Code, w.Body.String())
    }
    receipt := decode(t, w)
    if receipt["permit_code"] != code {
        t.Fatalf("receipt permit_code = %v, want the issued plaintext %q", receipt["permit_code"], code)
    }
    if receipt["created_by"] != "issuer" {
        t.Fatalf("receipt created_by = %v", receipt["created_by"])
    }

    w = doJSON(t, r, "GET", "/api/v1/permits/MISSING/receipt", token, nil)
    if w.Code != 404 {
        t.Fatalf("missing receipt: status %d, want 404", w.Code)
    }
}

func TestSearchMatchesAcrossFields(t *testing.T) {
    _, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    for _, s := range []gin.H{
        {"student_id": "S600", "name": "Akosua Boateng", "course": "BSc IT", "validity_period": 30},
        {"student_id": "S601", "name": "Kojo Antwi", "course": "BBA", "validity_period": 30},
    } {
        if w := doJSON(t, r, "POST", "/api/v1/permits", token, s); w.Code != 201 {
            t.Fatalf("create %v: status %d", s["student_id"], w.Code)
        }
    }

    w := doJSON(t, r, "GET", "/api/v1/permits/search?q=Boateng", token, nil)
    if w.Code != 200 {
        t.Fatalf("search: status %d", w.Code)
    }
    data, _ := decode(t, w)["data"].([]any)
    if len(data) != 1 {
        t.Fatalf("search hits = %d, want 1", len(data))
    }
    hit := data[0].(map[string]any)
    if hit["student_id"] != "S600" {
        t.Fatalf("search hit = %v", hit["student_id"])
    }
    if hit["creator"] != "issuer" {
        t.Fatalf("search creator = %v", hit["creator"])
    }
}

func TestBulkDeleteAndReset(t *testing.T) {
    db, r := setupRouter(t)
    token := loginAs(t, r, "issuer")

    for _, id := range []string{"S700", "S701", "S702"} {
        if w := doJSON(t, r, "POST", "/api/v1/permits", token, gin.H{
            "student_id": id, "validity_period": 30,
        }); w.Code != 201 {
            t.Fatalf("create %s: status %d", id, w.Code)
        }
    }

    w := doJSON(t, r, "POST", "/api/v1/permits/bulk-delete", token, gin.H{
        "student_ids": []string{"S700", "S701"},
    })
    if w.Code != 200 || decode(t, w)["rows_affected"] != float64(2) {
        t.Fatalf("bulk delete: status %d body %s", w.Code, w.Body.String())
    }

    w = doJSON(t, r, "DELETE", "/api/v1/admin/data", token, nil)
    if w.Code != 200 {
        t.Fatalf("reset: status %d body %s", w.Code, w.Body.String())
    }

    var students, audits int64
    if err := db.Table("students").Count(&students).Error; err != nil {
        t.Fatalf("count students: %v", err)
    }
    if err := db.Table("audit_logs").Count(&audits).Error; err != nil {
        t.Fatalf("count audits: %v", err)
    }
    if students != 0 {
        t.Fatalf("students after reset = %d, want 0", students)
    }
    if audits == 0 {
        t.Fatal("audit trail did not survive the reset")
    }
}
