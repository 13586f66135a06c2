package database

import (
    "fmt"
    "os"
    "path/filepath"

    "github.com/glebarez/sqlite"
    "gorm.io/driver/postgres"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/config"
    "github.com/kojoasare/permit_backend_v1/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
    switch cfg.DBDriver {
    case "postgres":
        dsn := fmt.Sprintf(
            "host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
            cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
        )
        return gorm.Open(postgres.Open(dsn), &gorm.Config{})
    case "sqlite", "":
        if dir := filepath.Dir(cfg.DBPath); dir != "." {
            if err := os.MkdirAll(dir, 0o755); err != nil {
                return nil, err
            }
        }
        return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
    default:
        return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
    }
}

func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(
        &models.User{},
        &models.Student{},
        &models.AuditLog{},
    )
}
