package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// HTTP server settings, Postgres connection details, and the OANDA price-stream
// credentials consumed by the ticker relay.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=tradejournal
//	POSTGRES_SSLMODE=disable
//	OANDA_API_TOKEN=...
//	OANDA_ACCOUNT_ID=001-001-0000000-001
//	OANDA_INSTRUMENTS=EUR_USD,GBP_USD,GBP_JPY,XAU_USD
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Oanda    OandaConfig    // Upstream price-stream vendor settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port       string // The TCP port the HTTP server will listen on (e.g., "8080")
	CORSOrigin string // Allowed CORS origin for browser clients ("*" by default)
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// OandaConfig defines the upstream streaming-price vendor settings.
//
// Fields:
//   - Token: bearer credential sent on the upstream streaming request.
//     There is intentionally no default; the relay refuses to open an
//     upstream connection without it.
//   - AccountID: OANDA account the pricing stream is scoped to.
//   - StreamURL: full streaming endpoint URL. When left empty it is derived
//     from AccountID using the standard fxTrade stream host.
//   - Instruments: fixed instrument list requested from the vendor, in the
//     vendor's underscore format (e.g., "EUR_USD").
type OandaConfig struct {
	Token       string
	AccountID   string
	StreamURL   string
	Instruments []string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Derives the OANDA stream URL from the account id when not set explicitly.
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ORIGIN", "*")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tradejournal")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// No default for the token: credentials never ship in code.
	viper.SetDefault("OANDA_INSTRUMENTS", "EUR_USD,GBP_USD,GBP_JPY,XAU_USD")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:       viper.GetString("SERVER_PORT"),
			CORSOrigin: viper.GetString("CORS_ORIGIN"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Oanda: OandaConfig{
			Token:       viper.GetString("OANDA_API_TOKEN"),
			AccountID:   viper.GetString("OANDA_ACCOUNT_ID"),
			StreamURL:   viper.GetString("OANDA_STREAM_URL"),
			Instruments: splitInstruments(viper.GetString("OANDA_INSTRUMENTS")),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Derive the vendor stream URL when not overridden.
	if AppConfig.Oanda.StreamURL == "" && AppConfig.Oanda.AccountID != "" {
		AppConfig.Oanda.StreamURL = fmt.Sprintf(
			"https://stream-fxtrade.oanda.com/v3/accounts/%s/pricing/stream",
			AppConfig.Oanda.AccountID,
		)
	}

	// Validate critical fields
	validateConfig()
}

// splitInstruments parses a comma-separated instrument list, dropping empty entries.
func splitInstruments(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
//
// Note:
//   - OANDA credentials are not required here: CSV import/export modes never
//     touch the vendor, and in api mode the relay rejects subscriptions with
//     an explicit error when the token is absent.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(AppConfig.Oanda.Instruments) == 0 {
		missing = append(missing, "OANDA_INSTRUMENTS")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
