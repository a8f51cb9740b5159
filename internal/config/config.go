package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types

	"golang.org/x/crypto/bcrypt" // bcrypt supplies the default hashing cost
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	JWTIssuer      string // issuer claim stamped into and required from access tokens
	JWTAudience    string // audience claim stamped into and required from access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	ReuseRevokeAll bool   // true: a reused refresh token tears down every session of its owner
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The token lifetimes
// and the bcrypt cost are optional and carry defaults.  The JWT secret,
// issuer and audience are required here on purpose: a missing signing key
// must be a startup failure, never a per-request one.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),             // environment (dev/test/prod)
		Port:           must("APP_PORT"),            // port to bind the HTTP server
		DBUser:         must("DB_USER"),             // database user
		DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
		DBHost:         must("DB_HOST"),             // database host
		DBPort:         must("DB_PORT"),             // database port
		DBName:         must("DB_NAME"),             // database name
		JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
		JWTIssuer:      must("JWT_ISSUER"),          // issuer embedded in access tokens
		JWTAudience:    must("JWT_AUDIENCE"),        // audience embedded in access tokens
		AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 15),   // TTL for access tokens in minutes
		RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 35), // TTL for refresh tokens in days
		BcryptCost:     intOr("BCRYPT_COST", bcrypt.DefaultCost), // bcrypt cost factor
		ReuseRevokeAll: envBool("REUSE_REVOKE_ALL", true), // reuse handling policy, strict by default
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

// intOr reads an optional integer environment variable, falling back to def
// when the variable is unset.  A value that is present but malformed is still
// a fatal error: a typo must not silently change a token lifetime.
func intOr(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
