package controllers

import (
    "errors"
    "fmt"
    "log"
    "net/http"
    "sort"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/audit"
    "github.com/kojoasare/permit_backend_v1/internal/database"
    "github.com/kojoasare/permit_backend_v1/internal/mailer"
    "github.com/kojoasare/permit_backend_v1/internal/models"
    "github.com/kojoasare/permit_backend_v1/internal/permits"
    "github.com/kojoasare/permit_backend_v1/internal/utils"
)

type PermitController struct {
    DB    *gorm.DB
    Audit *audit.Recorder
    Mail  *mailer.Mailer
}

const codeInsertRetries = 3

var errCodeRetries = errors.New("could not generate a unique permit code")

// insertWithFreshCode generates a code, hashes it and inserts the record,
// regenerating on a permit-code collision. Any other error (including a
// student_id collision) is returned to the caller. On success it returns
// the plaintext code.
//
// bcrypt salts make two equal codes hash differently, so the unique
// constraint on the hash column almost never fires; the retry mainly
// documents that a collision is recoverable.
func insertWithFreshCode(db *gorm.DB, rec *models.Student) (string, error) {
    for attempt := 0; attempt < codeInsertRetries; attempt++ {
        code, err := utils.GeneratePermitCode()
        if err != nil {
            return "", err
        }
        hash, err := utils.HashPassword(code)
        if err != nil {
            return "", err
        }
        rec.PermitCode = hash
        rec.OriginalCode = code

        err = db.Create(rec).Error
        if err == nil {
            return code, nil
        }
        if database.IsUniqueViolation(err, "permit_code") {
            rec.ID = 0
            continue
        }
        return "", err
    }
    return "", errCodeRetries
}

func studentJSON(s models.Student) gin.H {
    return gin.H{
        "student_id":      s.StudentID,
        "name":            s.Name,
        "email":           s.Email,
        "course":          s.Course,
        "level":           s.Level,
        "number":          s.Number,
        "amount_paid":     s.AmountPaid,
        "original_code":   s.OriginalCode,
        "status":          s.Status,
        "validity_period": s.ValidityPeriod,
        "created_at":      s.CreatedAt,
        "created_by":      s.CreatedBy,
    }
}

type createPermitRequest struct {
    StudentID      string  `json:"student_id" binding:"required"`
    Name           string  `json:"name"`
    Email          string  `json:"email"`
    Course         string  `json:"course"`
    Level          string  `json:"level"`
    Number         string  `json:"number"`
    AmountPaid     float64 `json:"amount_paid"`
    ValidityPeriod int     `json:"validity_period" binding:"min=0"`
}

func (pc *PermitController) Create(c *gin.Context) {
    user := currentUser(c)

    var req createPermitRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    rec := models.Student{
        StudentID:      req.StudentID,
        Name:           req.Name,
        Email:          req.Email,
        Course:         req.Course,
        Level:          req.Level,
        Number:         req.Number,
        AmountPaid:     req.AmountPaid,
        Status:         models.StatusActive,
        ValidityPeriod: req.ValidityPeriod,
        CreatedBy:      &user.ID,
    }

    code, err := insertWithFreshCode(pc.DB, &rec)
    if err != nil {
        if database.IsUniqueViolation(err, "student_id") {
            c.JSON(http.StatusConflict, gin.H{"error": "student_id already exists"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    qr, err := utils.QRCodeDataURL(code)
    if err != nil {
        log.Printf("qr encode failed for %s: %v", rec.StudentID, err)
    }

    pc.Audit.Log("create-permit", fmt.Sprintf("Student ID: %s, Created by: %s", rec.StudentID, user.Username))

    if rec.Email != "" {
        if err := pc.sendPermitEmail(rec, code); err != nil {
            log.Printf("permit email to %s failed: %v", rec.Email, err)
        }
    }

    c.JSON(http.StatusCreated, gin.H{
        "success":         true,
        "student_id":      rec.StudentID,
        "permit_code":     code,
        "qr_code":         qr,
        "validity_period": rec.ValidityPeriod,
        "created_at":      rec.CreatedAt,
    })
}

// Verify checks a plaintext code against every active permit. Wrong,
// revoked and unknown codes are indistinguishable in the response: all
// come back {"valid": false}. The per-record bcrypt comparison makes this
// O(active records) slow hashes per call, which is fine for a population
// of a few thousand and is not to be replaced with an indexed lookup.
func (pc *PermitController) Verify(c *gin.Context) {
    code := strings.TrimSpace(c.Query("code"))
    if code == "" {
        c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "code is required"})
        return
    }

    var rows []models.Student
    if err := pc.DB.Where("status = ?", models.StatusActive).Order("id").Find(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
        return
    }

    for i := range rows {
        if utils.CheckPassword(rows[i].PermitCode, code) {
            pc.Audit.Log("verify-permit", rows[i].StudentID)
            c.JSON(http.StatusOK, gin.H{"valid": true, "student": studentJSON(rows[i])})
            return
        }
    }

    c.JSON(http.StatusOK, gin.H{"valid": false})
}

// Revoke transitions a permit from active to revoked. Revoking an already
// revoked or unknown permit is a no-op success; rows_affected tells the
// caller which it was. There is no way back out of revoked.
func (pc *PermitController) Revoke(c *gin.Context) {
    studentID := c.Param("student_id")

    res := pc.DB.Model(&models.Student{}).
        Where("student_id = ? AND status = ?", studentID, models.StatusActive).
        Update("status", models.StatusRevoked)
    if res.Error != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
        return
    }

    pc.Audit.Log("revoke-permit", studentID)
    c.JSON(http.StatusOK, gin.H{"success": true, "rows_affected": res.RowsAffected})
}

func (pc *PermitController) Fetch(c *gin.Context) {
    studentID := c.Param("student_id")

    var rec models.Student
    if err := pc.DB.Where("student_id = ?", studentID).First(&rec).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, studentJSON(rec))
}

// Validity reports the derived expiry view for one permit. Unlike Verify,
// this authenticated path does distinguish revoked from expired from
// active.
func (pc *PermitController) Validity(c *gin.Context) {
    studentID := c.Param("student_id")

    var rec models.Student
    if err := pc.DB.Where("student_id = ?", studentID).First(&rec).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            c.JSON(http.StatusOK, gin.H{"exists": false})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    v := permits.EvaluateValidity(rec.CreatedAt, rec.ValidityPeriod, rec.Status, time.Now().UTC())
    c.JSON(http.StatusOK, gin.H{
        "exists":         true,
        "student":        studentJSON(rec),
        "days_elapsed":   v.DaysElapsed,
        "days_remaining": v.DaysRemaining,
        "is_expired":     v.IsExpired,
        "status":         v.Status,
    })
}

func (pc *PermitController) Receipt(c *gin.Context) {
    studentID := c.Param("student_id")

    var rec models.Student
    if err := pc.DB.Where("student_id = ?", studentID).First(&rec).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    creator := ""
    if rec.CreatedBy != nil {
        var u models.User
        if err := pc.DB.First(&u, *rec.CreatedBy).Error; err == nil {
            creator = u.Username
        }
    }

    now := time.Now()
    c.JSON(http.StatusOK, gin.H{
        "receipt_number":  fmt.Sprintf("REC-%d", now.UnixMilli()),
        "date":            now.Format("2006-01-02"),
        "time":            now.Format("15:04:05"),
        "student_id":      rec.StudentID,
        "name":            rec.Name,
        "course":          rec.Course,
        "level":           rec.Level,
        "amount_paid":     rec.AmountPaid,
        "permit_code":     rec.OriginalCode,
        "validity_period": rec.ValidityPeriod,
        "created_by":      creator,
        "status":          "PAID",
    })
}

func (pc *PermitController) Print(c *gin.Context) {
    studentID := c.Param("student_id")

    var rec models.Student
    if err := pc.DB.Where("student_id = ?", studentID).First(&rec).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    qr, err := utils.QRCodeDataURL(rec.OriginalCode)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"student": studentJSON(rec), "qr_code": qr})
}

func (pc *PermitController) Delete(c *gin.Context) {
    studentID := c.Param("student_id")

    res := pc.DB.Where("student_id = ?", studentID).Delete(&models.Student{})
    if res.Error != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
        return
    }

    pc.Audit.Log("delete-student", studentID)
    c.JSON(http.StatusOK, gin.H{"success": true, "rows_affected": res.RowsAffected})
}

type bulkDeleteRequest struct {
    StudentIDs []string `json:"student_ids" binding:"required,min=1"`
}

func (pc *PermitController) BulkDelete(c *gin.Context) {
    var req bulkDeleteRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    res := pc.DB.Where("student_id IN ?", req.StudentIDs).Delete(&models.Student{})
    if res.Error != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
        return
    }

    pc.Audit.Log("bulk-delete", fmt.Sprintf("Deleted %d students", res.RowsAffected))
    c.JSON(http.StatusOK, gin.H{"success": true, "rows_affected": res.RowsAffected})
}

type studentWithCreator struct {
    models.Student
    Creator string
}

func (pc *PermitController) Search(c *gin.Context) {
    q := strings.TrimSpace(c.Query("q"))
    like := "%" + q + "%"

    var rows []studentWithCreator
    err := pc.DB.Model(&models.Student{}).
        Select("students.*, users.username AS creator").
        Joins("LEFT JOIN users ON users.id = students.created_by").
        Where("students.student_id LIKE ? OR students.name LIKE ? OR students.email LIKE ? OR students.course LIKE ? OR students.level LIKE ?",
            like, like, like, like, like).
        Order("students.id").
        Scan(&rows).Error
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(rows))
    for _, r := range rows {
        item := studentJSON(r.Student)
        item["creator"] = r.Creator
        out = append(out, item)
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": gin.H{"total": len(out)}})
}

// Expiring lists active permits that lapse within the next 7 days,
// soonest first.
func (pc *PermitController) Expiring(c *gin.Context) {
    var rows []models.Student
    if err := pc.DB.Where("status = ?", models.StatusActive).Find(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    now := time.Now().UTC()
    type candidate struct {
        rec       models.Student
        expiresAt time.Time
        remaining int
    }
    var soon []candidate
    for _, r := range rows {
        v := permits.EvaluateValidity(r.CreatedAt, r.ValidityPeriod, r.Status, now)
        if v.IsExpired || v.DaysRemaining > 7 {
            continue
        }
        soon = append(soon, candidate{
            rec:       r,
            expiresAt: permits.ExpiresAt(r.CreatedAt, r.ValidityPeriod),
            remaining: v.DaysRemaining,
        })
    }
    sort.Slice(soon, func(i, j int) bool { return soon[i].expiresAt.Before(soon[j].expiresAt) })
    if len(soon) > 5 {
        soon = soon[:5]
    }

    out := make([]gin.H, 0, len(soon))
    for _, s := range soon {
        item := studentJSON(s.rec)
        item["days_remaining"] = s.remaining
        item["expires_at"] = s.expiresAt
        out = append(out, item)
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

func (pc *PermitController) sendPermitEmail(rec models.Student, code string) error {
    subject := "Your SRC Permit"
    text := fmt.Sprintf(
        "Hello %s,\n\nYour permit has been issued.\n\nPermit code: %s\nValid for: %d days\n\nKeep this code safe; you will need it for verification.",
        rec.Name, code, rec.ValidityPeriod,
    )
    html := fmt.Sprintf(
        "<p>Hello %s,</p><p>Your permit has been issued.</p><p><b>Permit code:</b> %s<br><b>Valid for:</b> %d days</p><p>Keep this code safe; you will need it for verification.</p>",
        rec.Name, code, rec.ValidityPeriod,
    )
    return pc.Mail.Send(rec.Email, subject, text, html)
}
