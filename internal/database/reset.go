package database

import (
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

// ResetPermitData wipes every permit record in a single transaction so a
// failure cannot leave the store half-cleared. Users and audit logs are
// kept.
func ResetPermitData(db *gorm.DB) error {
    if err := db.Transaction(func(tx *gorm.DB) error {
        return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
            Delete(&models.Student{}).Error
    }); err != nil {
        return err
    }

    // Best effort: reset the sqlite autoincrement counter. The table only
    // exists when AUTOINCREMENT has been used, so the error is ignored.
    if db.Dialector.Name() == "sqlite" {
        _ = db.Exec(`DELETE FROM sqlite_sequence WHERE name = 'students'`).Error
    }
    return nil
}
