package main

import (
    "context"
    "errors"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strconv"
    "syscall"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/joho/godotenv"

    "github.com/kojoasare/permit_backend_v1/internal/config"
    "github.com/kojoasare/permit_backend_v1/internal/database"
    "github.com/kojoasare/permit_backend_v1/internal/mailer"
    "github.com/kojoasare/permit_backend_v1/internal/permits"
    "github.com/kojoasare/permit_backend_v1/internal/routes"
    "github.com/kojoasare/permit_backend_v1/internal/ws"
)

func main() {
    // Load .env (non-fatal if missing in production)
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Connect(cfg)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }

    if err := database.Migrate(db); err != nil {
        log.Fatalf("database migration failed: %v", err)
    }

    if err := database.SeedAdmin(db, cfg); err != nil {
        log.Fatalf("admin seed failed: %v", err)
    }

    hub := ws.NewAuditHub()
    go hub.Run()

    smtpPort, _ := strconv.Atoi(cfg.SMTPPort)
    mail := mailer.New(cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    sweepHours, _ := strconv.Atoi(cfg.SweepIntervalHours)
    sweeper := permits.NewSweeper(db, permits.SweeperConfig{IntervalHours: sweepHours}, log.Default())
    sweeper.Start(ctx)

    r := gin.Default()
    routes.Register(r, db, cfg, hub, mail)

    port := cfg.Port
    if port == "" {
        port = "8080"
    }
    srv := &http.Server{Addr: ":" + port, Handler: r}

    go func() {
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Println("server exited with error:", err)
            stop()
        }
    }()

    <-ctx.Done()

    sweeper.Stop()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Println("shutdown error:", err)
        os.Exit(1)
    }
}
