package models

import "time"

// AuditLog rows are append-only; nothing in the system updates or deletes
// them, including the full data reset.
type AuditLog struct {
    ID        uint `gorm:"primaryKey"`
    Action    string
    Details   string
    CreatedAt time.Time `gorm:"index"`
}
