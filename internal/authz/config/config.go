package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI             string
	Port                 string
	DBName               string
	PrincipalsCollection string
	AuditCollection      string
	RedisAddr            string
	PrincipalCacheTTL    time.Duration
	PrincipalReadTimeout time.Duration
	AuditWriteTimeout    time.Duration
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	AllowUnmatchedRoutes bool
}

func LoadConfig() (*Config, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		MongoURI:             mongoURI,
		Port:                 port,
		DBName:               getEnv("DB_NAME", "l2l_db"),
		PrincipalsCollection: getEnv("COLLECTION_PRINCIPALS", "users"),
		AuditCollection:      getEnv("COLLECTION_AUDIT_EVENTS", "permission_audit_events"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		PrincipalCacheTTL:    getEnvDuration("PRINCIPAL_CACHE_TTL", 30*time.Second),
		PrincipalReadTimeout: getEnvDuration("PRINCIPAL_READ_TIMEOUT", 3*time.Second),
		AuditWriteTimeout:    getEnvDuration("AUDIT_WRITE_TIMEOUT", 2*time.Second),
		ReadTimeout:          getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:         getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		AllowUnmatchedRoutes: getEnvBool("ALLOW_UNMATCHED_ROUTES", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.PrincipalReadTimeout <= 0 {
		return fmt.Errorf("PRINCIPAL_READ_TIMEOUT must be positive")
	}
	if c.AuditWriteTimeout <= 0 {
		return fmt.Errorf("AUDIT_WRITE_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Try parsing as duration string? e.g. "10s"
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
