package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values of the HTTP server.  Each
// field corresponds to an environment variable or a group of them.
type Config struct {
	Env            string   // application environment (e.g. "dev", "production")
	Port           string   // HTTP port to listen on
	DB             DBConfig // database connection settings
	Log            LogConfig
	MaxImportBytes int64 // largest accepted import payload
	EnsureSchema   bool  // create missing tables at startup
}

// DBConfig holds the MySQL connection settings shared by the server and
// the CLI.
type DBConfig struct {
	User string // database username
	Pass string // database password (optional)
	Host string // database host address
	Port string // database port number
	Name string // database name
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string // debug, info, warn or error
	Pretty bool   // console encoder instead of JSON
}

// LoadDotEnv reads a .env file into the environment unless APP_ENV is
// "production".  A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	_ = godotenv.Load()
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),  // environment (dev/test/production)
		Port:           must("APP_PORT"), // port to bind the HTTP server
		DB:             LoadDBConfig(),
		Log:            LoadLogConfig(),
		MaxImportBytes: int64(envInt("IMPORT_MAX_BYTES", 10<<20)),
		EnsureSchema:   envBool("DB_ENSURE_SCHEMA", true),
	}
}

// LoadDBConfig reads the DB_* variables; all but DB_PASS are required.
func LoadDBConfig() DBConfig {
	return DBConfig{
		User: must("DB_USER"),      // database user
		Pass: os.Getenv("DB_PASS"), // database password (empty allowed)
		Host: must("DB_HOST"),      // database host
		Port: must("DB_PORT"),      // database port
		Name: must("DB_NAME"),      // database name
	}
}

// LoadLogConfig reads LOG_LEVEL and PRETTY_LOGS.
func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:  envStr("LOG_LEVEL", "info"),
		Pretty: envBool("PRETTY_LOGS", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
