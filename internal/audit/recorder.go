package audit

import (
    "log"

    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
    "github.com/kojoasare/permit_backend_v1/internal/ws"
)

// Recorder appends audit entries and fans them out to the live feed.
// Callers invoke Log only after the action it describes has succeeded, so
// the trail never records failed operations as done.
type Recorder struct {
    DB  *gorm.DB
    Hub *ws.AuditHub
}

// Log inserts an audit row. A storage failure here must not fail the
// operation being audited, so it is logged and swallowed.
func (r *Recorder) Log(action, details string) {
    entry := models.AuditLog{Action: action, Details: details}
    if err := r.DB.Create(&entry).Error; err != nil {
        log.Printf("audit: failed to record %q: %v", action, err)
        return
    }
    r.Hub.Broadcast(ws.AuditEvent{
        ID:        entry.ID,
        Action:    entry.Action,
        Details:   entry.Details,
        CreatedAt: entry.CreatedAt,
    })
}
