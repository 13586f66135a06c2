package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

type AuditController struct {
    DB *gorm.DB
}

// Recent returns the latest 10 audit entries, newest first.
func (ac *AuditController) Recent(c *gin.Context) {
    var rows []models.AuditLog
    if err := ac.DB.Order("created_at DESC, id DESC").Limit(10).Find(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(rows))
    for _, r := range rows {
        out = append(out, gin.H{
            "id":        r.ID,
            "action":    r.Action,
            "details":   r.Details,
            "timestamp": r.CreatedAt,
        })
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}
