package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Connection and secret values are required and
// enforced at startup; billing thresholds fall back to sensible defaults so
// a development environment only needs the core variables.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time‑to‑live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	// Billing scheduler thresholds.  These tune the retry loop without
	// touching the invariant logic.
	CallbackSecret     string // shared secret guarding the payment provider webhook
	BillingMaxAttempts int    // charge attempts per invoice before suspension
	BillingBackoffMin  int    // minutes between charge attempts on one invoice
	BillingTickSec     int    // seconds between scheduler ticks
	ChargeTimeoutSec   int    // upper bound on a single gateway call
	GatewayAccept      bool   // mock gateway outcome (dev only)

	// Past-due enforcement.
	EnforcePastDue bool // cancel future bookings when a subscription goes past due
	GraceHours     int  // sessions starting within this window survive enforcement

	// Booking action debounce applied per user in the admission engine.
	ActionMinIntervalMS int
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),      // environment (dev/test/prod)
		Port:         must("APP_PORT"),     // port to bind the HTTP server
		DBUser:       must("DB_USER"),      // database user
		DBPass:       os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:       must("DB_HOST"),      // database host
		DBPort:       must("DB_PORT"),      // database port
		DBName:       must("DB_NAME"),      // database name
		JWTSecret:    must("JWT_SECRET"),   // secret used for signing JWTs
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"), // TTL for access tokens in minutes
		BcryptCost:   mustInt("BCRYPT_COST"),          // bcrypt cost factor

		CallbackSecret:     must("PAYMENTS_CALLBACK_SECRET"),
		BillingMaxAttempts: envInt("PAYMENTS_MAX_ATTEMPTS", 3),
		BillingBackoffMin:  envInt("PAYMENTS_RETRY_BACKOFF_MINUTES", 60),
		BillingTickSec:     envInt("PAYMENTS_SCHEDULER_TICK_SECONDS", 60),
		ChargeTimeoutSec:   envInt("PAYMENTS_CHARGE_TIMEOUT_SECONDS", 10),
		GatewayAccept:      envBool("PAYMENTS_MOCK_GATEWAY_ACCEPT", true),

		EnforcePastDue: envBool("PAYMENTS_PASTDUE_CANCEL_FUTURE", true),
		GraceHours:     envInt("PAYMENTS_PASTDUE_GRACE_HOURS", 0),

		ActionMinIntervalMS: envInt("BOOKING_MIN_INTERVAL_MS", 800),
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
