package routes

import (
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/audit"
    "github.com/kojoasare/permit_backend_v1/internal/config"
    "github.com/kojoasare/permit_backend_v1/internal/controllers"
    "github.com/kojoasare/permit_backend_v1/internal/mailer"
    "github.com/kojoasare/permit_backend_v1/internal/middleware"
    "github.com/kojoasare/permit_backend_v1/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.AuditHub, mail *mailer.Mailer) {
    expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
    if err != nil || expiresMins == 0 {
        expiresMins = 60 * time.Minute
    }

    rec := &audit.Recorder{DB: db, Hub: hub}

    authCtrl := &controllers.AuthController{DB: db, Audit: rec, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}
    permitCtrl := &controllers.PermitController{DB: db, Audit: rec, Mail: mail}
    statsCtrl := &controllers.StatsController{DB: db}
    transferCtrl := &controllers.TransferController{DB: db, Audit: rec}
    adminCtrl := &controllers.AdminController{DB: db, Audit: rec, DBPath: cfg.DBPath}
    auditCtrl := &controllers.AuditController{DB: db}

    // Public
    auth := r.Group("/api/v1/auth")
    {
        auth.POST("/signup", authCtrl.Signup)
        auth.POST("/login", authCtrl.Login)
    }

    // Public verification endpoint: turnstile scanners hold no credentials.
    r.GET("/api/v1/permits/verify", permitCtrl.Verify)

    // Protected
    authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
    api := r.Group("/api/v1", authMW)
    {
        api.GET("/auth/me", authCtrl.Me)
        api.DELETE("/auth/account", authCtrl.DeleteAccount)

        permitsGrp := api.Group("/permits")
        {
            permitsGrp.POST("", permitCtrl.Create)
            permitsGrp.GET("/search", permitCtrl.Search)
            permitsGrp.GET("/expiring", permitCtrl.Expiring)
            permitsGrp.GET("/export", transferCtrl.Export)
            permitsGrp.POST("/import", transferCtrl.Import)
            permitsGrp.POST("/bulk-delete", permitCtrl.BulkDelete)
            permitsGrp.GET("/:student_id", permitCtrl.Fetch)
            permitsGrp.GET("/:student_id/validity", permitCtrl.Validity)
            permitsGrp.GET("/:student_id/receipt", permitCtrl.Receipt)
            permitsGrp.GET("/:student_id/print", permitCtrl.Print)
            permitsGrp.POST("/:student_id/revoke", permitCtrl.Revoke)
            permitsGrp.DELETE("/:student_id", permitCtrl.Delete)
        }

        api.GET("/stats", statsCtrl.Overview)
        api.GET("/stats/permits", statsCtrl.ByStatus)
        api.GET("/stats/revenue", statsCtrl.Revenue)

        api.GET("/audit/recent", auditCtrl.Recent)
        api.GET("/ws/audit", middleware.RequireRoles("admin", "operator"), ws.AuditFeedHandler(hub))

        // Admin-only maintenance
        admin := api.Group("/admin", middleware.RequireRoles("admin"))
        {
            admin.POST("/backup", adminCtrl.Backup)
            admin.POST("/restore", adminCtrl.Restore)
            admin.DELETE("/data", adminCtrl.Reset)
        }
    }
}
