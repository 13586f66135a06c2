package permits

import (
    "context"
    "io"
    "log"
    "path/filepath"
    "testing"
    "time"

    "github.com/glebarez/sqlite"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    path := filepath.Join(t.TempDir(), "permits.db")
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    if err := db.AutoMigrate(&models.Student{}); err != nil {
        t.Fatalf("migrate: %v", err)
    }
    return db
}

func seedStudent(t *testing.T, db *gorm.DB, studentID string, createdAt time.Time, validityDays int) {
    t.Helper()
    rec := models.Student{
        StudentID:      studentID,
        PermitCode:     "hash-" + studentID,
        OriginalCode:   "C0D" + studentID,
        Status:         models.StatusActive,
        ValidityPeriod: validityDays,
        CreatedAt:      createdAt,
    }
    if err := db.Create(&rec).Error; err != nil {
        t.Fatalf("seed %s: %v", studentID, err)
    }
}

func TestDeleteExpired(t *testing.T) {
    db := openTestDB(t)
    now := time.Now().UTC().Truncate(time.Second)

    seedStudent(t, db, "OLD", now.Add(-10*day), 5)  // 5 days past expiry
    seedStudent(t, db, "EDGE", now.Add(-5*day), 5)  // exactly at the boundary
    seedStudent(t, db, "FRESH", now.Add(-time.Hour), 5)

    deleted, err := DeleteExpired(db, now)
    if err != nil {
        t.Fatalf("DeleteExpired: %v", err)
    }
    if deleted != 1 {
        t.Fatalf("deleted = %d, want 1", deleted)
    }

    var remaining []models.Student
    if err := db.Order("student_id").Find(&remaining).Error; err != nil {
        t.Fatalf("find: %v", err)
    }
    if len(remaining) != 2 {
        t.Fatalf("remaining rows = %d, want 2", len(remaining))
    }
    if remaining[0].StudentID != "EDGE" || remaining[1].StudentID != "FRESH" {
        t.Fatalf("unexpected survivors: %s, %s", remaining[0].StudentID, remaining[1].StudentID)
    }
}

func TestDeleteExpiredNothingToDo(t *testing.T) {
    db := openTestDB(t)
    now := time.Now().UTC()

    seedStudent(t, db, "S1", now.Add(-time.Hour), 30)

    deleted, err := DeleteExpired(db, now)
    if err != nil {
        t.Fatalf("DeleteExpired: %v", err)
    }
    if deleted != 0 {
        t.Fatalf("deleted = %d, want 0", deleted)
    }
}

func TestSweeperStartStop(t *testing.T) {
    db := openTestDB(t)
    now := time.Now().UTC()
    seedStudent(t, db, "OLD", now.Add(-10*day), 5)

    s := NewSweeper(db, SweeperConfig{IntervalHours: 1}, log.New(io.Discard, "", 0))
    s.Start(context.Background())

    // The startup sweep runs before the first tick; Stop waits for the
    // loop to exit, so the delete has happened by the time it returns.
    s.Stop()

    var count int64
    if err := db.Model(&models.Student{}).Count(&count).Error; err != nil {
        t.Fatalf("count: %v", err)
    }
    if count != 0 {
        t.Fatalf("expired row survived the startup sweep (count=%d)", count)
    }
}
