package permits

import (
    "context"
    "log"
    "time"

    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

// Sweeper periodically hard-deletes permits whose age exceeds their
// validity period. It runs as a background goroutine and is stopped
// deterministically via its context or the Stop method.
type Sweeper struct {
    db       *gorm.DB
    interval time.Duration
    logger   *log.Logger
    cancel   context.CancelFunc
    done     chan struct{}
}

// SweeperConfig holds the parameters for NewSweeper.
type SweeperConfig struct {
    // IntervalHours is how often the sweeper runs. Defaults to 24.
    IntervalHours int
}

// NewSweeper creates a sweeper but does not start it. Call Start to begin
// the background loop.
func NewSweeper(db *gorm.DB, cfg SweeperConfig, logger *log.Logger) *Sweeper {
    interval := time.Duration(cfg.IntervalHours) * time.Hour
    if interval <= 0 {
        interval = 24 * time.Hour
    }
    return &Sweeper{
        db:       db,
        interval: interval,
        logger:   logger,
        done:     make(chan struct{}),
    }
}

// Start begins the background loop: an immediate sweep on startup, then
// one per interval until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
    ctx, s.cancel = context.WithCancel(ctx)
    go s.loop(ctx)
    s.logger.Printf("permit sweeper started (interval=%dh)", int(s.interval.Hours()))
}

// Stop signals the sweeper to exit and waits for it to finish.
func (s *Sweeper) Stop() {
    if s.cancel != nil {
        s.cancel()
    }
    <-s.done
}

func (s *Sweeper) loop(ctx context.Context) {
    defer close(s.done)

    s.sweep()

    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.sweep()
        }
    }
}

func (s *Sweeper) sweep() {
    deleted, err := DeleteExpired(s.db, time.Now().UTC())
    if err != nil {
        s.logger.Printf("permit sweep error: %v", err)
        return
    }
    if deleted > 0 {
        s.logger.Printf("permit sweep: deleted %d expired permits", deleted)
    }
}

// DeleteExpired removes every permit whose elapsed age strictly exceeds
// its validity period at now. A record exactly at the boundary is kept.
// The scan-then-delete is deliberate: the per-row arithmetic stays in one
// place and portable across both drivers, and the table tops out at a few
// thousand rows.
func DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
    var rows []models.Student
    if err := db.Select("id", "created_at", "validity_period").Find(&rows).Error; err != nil {
        return 0, err
    }

    var expired []uint
    for _, r := range rows {
        if now.Sub(r.CreatedAt) > time.Duration(r.ValidityPeriod)*day {
            expired = append(expired, r.ID)
        }
    }
    if len(expired) == 0 {
        return 0, nil
    }

    res := db.Delete(&models.Student{}, expired)
    return res.RowsAffected, res.Error
}
