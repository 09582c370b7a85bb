package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Ledger   LedgerConfig
	Auth     AuthConfig
	Chain    ChainConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LedgerConfig names the accounts the ledger moves value between.
type LedgerConfig struct {
	ContractPrincipal string // custody account of all deposits
	OwnerPrincipal    string // receives rebalance fees, runs admin operations
}

// AuthConfig holds bearer token configuration
type AuthConfig struct {
	TokenKey string        // base64 fernet key
	TokenTTL time.Duration // 0 disables expiry
}

// ChainConfig holds the block clock and scheduler configuration
type ChainConfig struct {
	BlockInterval         time.Duration
	AutoRebalanceSchedule string // cron spec, empty disables the sweep
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	blockInterval, err := time.ParseDuration(getEnv("CHAIN_BLOCK_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAIN_BLOCK_INTERVAL: %w", err)
	}
	if blockInterval <= 0 {
		return nil, errors.New("CHAIN_BLOCK_INTERVAL must be positive")
	}

	tokenTTL, err := time.ParseDuration(getEnv("LEDGER_TOKEN_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TOKEN_TTL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ledger: LedgerConfig{
			ContractPrincipal: getEnv("LEDGER_CONTRACT_PRINCIPAL", "ledger.custody"),
			OwnerPrincipal:    getEnv("LEDGER_OWNER_PRINCIPAL", "ledger.owner"),
		},
		Auth: AuthConfig{
			TokenKey: os.Getenv("LEDGER_TOKEN_KEY"),
			TokenTTL: tokenTTL,
		},
		Chain: ChainConfig{
			BlockInterval:         blockInterval,
			AutoRebalanceSchedule: getEnv("AUTO_REBALANCE_SCHEDULE", "@every 1h"),
		},
	}

	if config.Auth.TokenKey == "" {
		return nil, errors.New("LEDGER_TOKEN_KEY is required (generate one with `ledgerctl keygen`)")
	}
	if config.Ledger.ContractPrincipal == config.Ledger.OwnerPrincipal {
		return nil, errors.New("LEDGER_CONTRACT_PRINCIPAL and LEDGER_OWNER_PRINCIPAL must differ")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
