package permits

import (
    "time"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

const day = 24 * time.Hour

// Validity is the derived view of a permit's lifetime. Expiry is computed
// at query time and never written back to the stored status column; the
// background sweeper deletes expired rows independently.
type Validity struct {
    DaysElapsed   int
    DaysRemaining int
    IsExpired     bool
    Status        string
}

// EvaluateValidity computes the validity view of a permit at now.
//
// Expiry compares elapsed time against the validity period as durations:
// a permit is still valid at exactly createdAt + period and expires the
// instant elapsed time exceeds it. The day counts are floored integers for
// display only.
func EvaluateValidity(createdAt time.Time, validityPeriodDays int, storedStatus string, now time.Time) Validity {
    elapsed := now.Sub(createdAt)
    period := time.Duration(validityPeriodDays) * day

    daysElapsed := int(elapsed / day)
    if daysElapsed < 0 {
        daysElapsed = 0
    }
    daysRemaining := validityPeriodDays - daysElapsed
    if daysRemaining < 0 {
        daysRemaining = 0
    }

    v := Validity{
        DaysElapsed:   daysElapsed,
        DaysRemaining: daysRemaining,
        IsExpired:     elapsed > period,
        Status:        storedStatus,
    }
    if v.IsExpired {
        v.Status = models.StatusExpired
    }
    return v
}

// ExpiresAt returns the instant a permit stops being valid.
func ExpiresAt(createdAt time.Time, validityPeriodDays int) time.Time {
    return createdAt.Add(time.Duration(validityPeriodDays) * day)
}
