package controllers

import (
    "io"
    "net/http"
    "os"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/audit"
    "github.com/kojoasare/permit_backend_v1/internal/database"
)

// AdminController covers the maintenance operations: backup and restore of
// the sqlite file and the transactional full reset.
type AdminController struct {
    DB     *gorm.DB
    Audit  *audit.Recorder
    DBPath string
}

type backupRequest struct {
    Path string `json:"path" binding:"required"`
}

// Backup copies the database file to the given path. It only makes sense
// for the sqlite driver; a postgres deployment gets a 400.
func (ac *AdminController) Backup(c *gin.Context) {
    var req backupRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if ac.DB.Dialector.Name() != "sqlite" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "backup requires the sqlite driver"})
        return
    }

    if err := copyFile(ac.DBPath, req.Path); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    ac.Audit.Log("backup-database", "Backup created at "+req.Path)
    c.JSON(http.StatusOK, gin.H{"success": true})
}

// Restore copies a backup over the live database file. Existing
// connections keep their handle; a restart is expected afterwards.
func (ac *AdminController) Restore(c *gin.Context) {
    var req backupRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if ac.DB.Dialector.Name() != "sqlite" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "restore requires the sqlite driver"})
        return
    }

    if err := copyFile(req.Path, ac.DBPath); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    ac.Audit.Log("restore-database", "Database restored from "+req.Path)
    c.JSON(http.StatusOK, gin.H{"success": true})
}

// Reset deletes all permit records in one transaction. Users and the
// audit trail survive.
func (ac *AdminController) Reset(c *gin.Context) {
    if err := database.ResetPermitData(ac.DB); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    ac.Audit.Log("delete-all-data", "All permit records deleted")
    c.JSON(http.StatusOK, gin.H{"success": true, "message": "All permit and student data have been deleted successfully."})
}

func copyFile(src, dst string) error {
    in, err := os.Open(src)
    if err != nil {
        return err
    }
    defer in.Close()

    out, err := os.Create(dst)
    if err != nil {
        return err
    }
    if _, err := io.Copy(out, in); err != nil {
        out.Close()
        return err
    }
    return out.Close()
}
