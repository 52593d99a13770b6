package config

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	JWTSecret string
	DB        *sql.DB
	SMTP      SMTPConfig
	Log       *logrus.Logger
}

// SMTPConfig holds outgoing mail settings. Email delivery is disabled when
// Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var AppConfig *Config

// Init loads configuration from environment variables, initializes the
// logger and opens the database connection pool.
func Init() (*Config, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=postgres dbname=familyfinance sslmode=disable"),
		JWTSecret: getEnv("JWT_SECRET", "familyfinance-secret-key"),
		Log:       log,
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Info("Testing database connection...")
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Info("Database connected successfully")

	cfg.DB = db
	AppConfig = cfg
	return cfg, nil
}

// GetDB returns the shared connection pool.
func GetDB() *sql.DB {
	return AppConfig.DB
}

// GetLog returns the shared application logger.
func GetLog() *logrus.Logger {
	return AppConfig.Log
}

// JWTSecret returns the key used to sign session tokens.
func JWTSecret() []byte {
	return []byte(AppConfig.JWTSecret)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}
