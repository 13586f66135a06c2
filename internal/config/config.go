package config

import (
    "os"
)

type Config struct {
    Port string

    // Storage. "sqlite" keeps everything in a single local file, which is
    // the normal deployment; "postgres" is available for shared setups.
    DBDriver   string
    DBPath     string
    DBHost     string
    DBPort     string
    DBUser     string
    DBPassword string
    DBName     string
    DBSSLMode  string

    JWTSecret    string
    JWTExpiresIn string // minutes

    AdminUsername string
    AdminPassword string

    SweepIntervalHours string

    // SMTP for permit notification emails. Leaving SMTPHost empty disables
    // the mailer entirely.
    SMTPHost     string
    SMTPPort     string
    SMTPUser     string
    SMTPPassword string
    SMTPFrom     string
    SMTPFromName string
}

func Load() *Config {
    return &Config{
        Port:     getenv("PORT", "8080"),
        DBDriver: getenv("DB_DRIVER", "sqlite"),
        DBPath:   getenv("DB_PATH", "database/permits.db"),

        DBHost:     getenv("DB_HOST", "localhost"),
        DBPort:     getenv("DB_PORT", "5432"),
        DBUser:     getenv("DB_USER", "postgres"),
        DBPassword: getenv("DB_PASSWORD", "postgres"),
        DBName:     getenv("DB_NAME", "permits_db"),
        DBSSLMode:  getenv("DB_SSLMODE", "disable"),

        JWTSecret:    getenv("JWT_SECRET", "supersecret_change_me"),
        JWTExpiresIn: getenv("JWT_EXPIRES_IN", "60"),

        AdminUsername: getenv("ADMIN_USERNAME", "admin"),
        AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),

        SweepIntervalHours: getenv("SWEEP_INTERVAL_HOURS", "24"),

        SMTPHost:     getenv("SMTP_HOST", ""),
        SMTPPort:     getenv("SMTP_PORT", "587"),
        SMTPUser:     getenv("SMTP_USER", ""),
        SMTPPassword: getenv("SMTP_PASSWORD", ""),
        SMTPFrom:     getenv("SMTP_FROM", ""),
        SMTPFromName: getenv("SMTP_FROM_NAME", "Student Representative Council"),
    }
}

func getenv(key, fallback string) string {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    return v
}
