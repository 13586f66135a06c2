package controllers

import (
    "bytes"
    "encoding/csv"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/audit"
    "github.com/kojoasare/permit_backend_v1/internal/database"
    "github.com/kojoasare/permit_backend_v1/internal/models"
)

// TransferController handles bulk CSV import and export of permit records.
type TransferController struct {
    DB    *gorm.DB
    Audit *audit.Recorder
}

type importRowError struct {
    Row       int    `json:"row"`
    StudentID string `json:"student_id,omitempty"`
    Error     string `json:"error"`
}

// Import bulk-creates permits from a CSV file. Expected header columns
// (case-insensitive): student_id, name, email, validity_period (optional).
// Any code column in the input is ignored; every imported row gets a
// freshly generated code and hash.
func (tc *TransferController) Import(c *gin.Context) {
    user := currentUser(c)

    // Limit max upload size (10MB) to avoid accidental huge files.
    if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
        return
    }
    file, fileHeader, err := c.Request.FormFile("file")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
        return
    }
    defer file.Close()

    if fileHeader == nil || !strings.HasSuffix(strings.ToLower(strings.TrimSpace(fileHeader.Filename)), ".csv") {
        c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are allowed"})
        return
    }

    data, err := io.ReadAll(file)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
        return
    }
    if len(bytes.TrimSpace(data)) == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
        return
    }

    reader := csv.NewReader(bytes.NewReader(data))
    reader.TrimLeadingSpace = true
    reader.FieldsPerRecord = -1

    header, err := reader.Read()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read header"})
        return
    }
    cols := map[string]int{}
    for i, h := range header {
        h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
        cols[h] = i
    }
    idCol, ok := cols["student_id"]
    if !ok {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing student_id column"})
        return
    }

    field := func(record []string, name string) string {
        i, ok := cols[name]
        if !ok || i >= len(record) {
            return ""
        }
        return strings.TrimSpace(record[i])
    }

    imported := 0
    var rowErrors []importRowError
    for rowNum := 2; ; rowNum++ {
        record, err := reader.Read()
        if err == io.EOF {
            break
        }
        if err != nil {
            rowErrors = append(rowErrors, importRowError{Row: rowNum, Error: err.Error()})
            continue
        }

        studentID := ""
        if idCol < len(record) {
            studentID = strings.TrimSpace(record[idCol])
        }
        if studentID == "" {
            rowErrors = append(rowErrors, importRowError{Row: rowNum, Error: "empty student_id"})
            continue
        }

        validity := 30
        if v := field(record, "validity_period"); v != "" {
            if n, err := strconv.Atoi(v); err == nil && n >= 0 {
                validity = n
            }
        }

        rec := models.Student{
            StudentID:      studentID,
            Name:           field(record, "name"),
            Email:          field(record, "email"),
            Course:         field(record, "course"),
            Level:          field(record, "level"),
            Status:         models.StatusActive,
            ValidityPeriod: validity,
            CreatedBy:      &user.ID,
        }
        if _, err := insertWithFreshCode(tc.DB, &rec); err != nil {
            msg := err.Error()
            if database.IsUniqueViolation(err, "student_id") {
                msg = "student_id already exists"
            }
            rowErrors = append(rowErrors, importRowError{Row: rowNum, StudentID: studentID, Error: msg})
            continue
        }
        imported++
    }

    tc.Audit.Log("import-students", fmt.Sprintf("Imported %d students", imported))
    c.JSON(http.StatusOK, gin.H{"success": true, "imported": imported, "errors": rowErrors})
}

// Export streams all permit records as CSV.
func (tc *TransferController) Export(c *gin.Context) {
    var rows []models.Student
    if err := tc.DB.Order("id").Find(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    c.Header("Content-Type", "text/csv")
    c.Header("Content-Disposition", `attachment; filename="permits.csv"`)

    w := csv.NewWriter(c.Writer)
    _ = w.Write([]string{"Student ID", "Name", "Email", "Status"})
    for _, r := range rows {
        _ = w.Write([]string{r.StudentID, r.Name, r.Email, r.Status})
    }
    w.Flush()

    tc.Audit.Log("export-students", fmt.Sprintf("Exported %d students", len(rows)))
}
