package models

import "time"

const (
    StatusActive  = "active"
    StatusRevoked = "revoked"
    // StatusExpired is derived from created_at + validity_period at query
    // time and is never written to the status column.
    StatusExpired = "expired"
)

// Student is one issued permit record. PermitCode holds the bcrypt hash of
// the permit code; OriginalCode keeps the plaintext so receipts can be
// reprinted. Verification only ever compares against the hash.
type Student struct {
    ID             uint   `gorm:"primaryKey"`
    StudentID      string `gorm:"uniqueIndex"`
    Name           string
    Email          string
    Course         string
    Level          string
    Number         string
    AmountPaid     float64
    PermitCode     string `gorm:"uniqueIndex"`
    OriginalCode   string
    Status         string `gorm:"default:active"`
    ValidityPeriod int
    CreatedAt      time.Time
    // CreatedBy is a weak reference to users.id; deleting the issuer leaves
    // it dangling on purpose.
    CreatedBy *uint
}
