package controllers

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

type StatsController struct {
    DB *gorm.DB
}

// Overview returns the dashboard headline numbers.
func (sc *StatsController) Overview(c *gin.Context) {
    var (
        total    int64
        active   int64
        revoked  int64
        students int64
        revenue  float64
    )

    base := func() *gorm.DB { return sc.DB.Model(&models.Student{}) }

    if err := base().Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if err := base().Where("status = ?", models.StatusActive).Count(&active).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if err := base().Where("status = ?", models.StatusRevoked).Count(&revoked).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if err := base().Distinct("student_id").Count(&students).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if err := base().Select("COALESCE(SUM(amount_paid), 0)").Scan(&revenue).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    var courses []struct {
        Course string
        Count  int64
    }
    if err := base().Select("course, COUNT(*) AS count").
        Group("course").Order("count DESC").Scan(&courses).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    dist := make([]gin.H, 0, len(courses))
    for _, row := range courses {
        dist = append(dist, gin.H{"course": row.Course, "count": row.Count})
    }

    c.JSON(http.StatusOK, gin.H{
        "total_permits":       total,
        "active_permits":      active,
        "revoked_permits":     revoked,
        "total_students":      students,
        "total_revenue":       revenue,
        "course_distribution": dist,
    })
}

// ByStatus returns stored status counts. Expired is a computed status and
// does not appear here unless the sweeper has not yet deleted the rows.
func (sc *StatsController) ByStatus(c *gin.Context) {
    var rows []struct {
        Status string
        Count  int64
    }
    if err := sc.DB.Model(&models.Student{}).
        Select("status, COUNT(*) AS count").
        Group("status").Scan(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(rows))
    for _, r := range rows {
        out = append(out, gin.H{"status": r.Status, "count": r.Count})
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

// Revenue returns today's and month-to-date takings plus a 30-day daily
// series. The per-day buckets come from the database; the two rollups are
// summed here so the query stays portable across sqlite and postgres.
func (sc *StatsController) Revenue(c *gin.Context) {
    now := time.Now().UTC()
    today := now.Format("2006-01-02")
    firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

    var daily []struct {
        Date   string
        Amount float64
    }
    if err := sc.DB.Model(&models.Student{}).
        Select("DATE(created_at) AS date, SUM(amount_paid) AS amount").
        Where("created_at >= ?", now.AddDate(0, 0, -30)).
        Group("DATE(created_at)").
        Order("date ASC").
        Scan(&daily).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    var todayRevenue, monthRevenue float64
    series := make([]gin.H, 0, len(daily))
    for _, d := range daily {
        // Postgres scans DATE into a full timestamp string; keep the
        // YYYY-MM-DD prefix so both drivers compare the same way.
        if len(d.Date) > 10 {
            d.Date = d.Date[:10]
        }
        if d.Date == today {
            todayRevenue += d.Amount
        }
        if d.Date >= firstOfMonth {
            monthRevenue += d.Amount
        }
        series = append(series, gin.H{"date": d.Date, "amount": d.Amount})
    }

    c.JSON(http.StatusOK, gin.H{
        "today_revenue": todayRevenue,
        "month_revenue": monthRevenue,
        "daily_revenue": series,
    })
}
