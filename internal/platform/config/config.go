package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	RateLimit          string   // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string // empty allows all origins outside production

	DefaultCityCharge decimal.Decimal
	BalanceEpsilon    decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "shop-ledger-backend")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("DEFAULT_CITY_CHARGE", "200")
	viper.SetDefault("BALANCE_EPSILON", "0.01")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.DefaultCityCharge = decimalSetting("DEFAULT_CITY_CHARGE", decimal.NewFromInt(200))
	cfg.BalanceEpsilon = decimalSetting("BALANCE_EPSILON", decimal.New(1, -2))

	return cfg, nil
}

func decimalSetting(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return value
}
