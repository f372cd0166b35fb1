package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultMongoURL  = "mongodb://localhost:27017"
	defaultMongoDB   = "kirana"
	defaultRedisAddr = "localhost:6379"
	defaultJWTSecret = "change-me-in-production"
	defaultAppPort   = "8080"
	defaultAppEnv    = "local"
)

var (
	loadOnce sync.Once

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges, in increasing precedence: built-in defaults, a .env file in
// the working directory (if present), and the process environment.
// Safe to call from any accessor; the merge runs once.
func Load() error {
	loadOnce.Do(func() {
		loaded := defaultValues()

		// godotenv only fills os.Environ for keys not already set, so an
		// exported variable always wins over the file.
		_ = godotenv.Load()

		for key := range loaded {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				loaded[key] = v
			}
		}

		mu.Lock()
		values = loaded
		mu.Unlock()
	})
	return nil
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URL":             defaultMongoURL,
		"MONGO_DB":              defaultMongoDB,
		"REDIS_ADDR":            defaultRedisAddr,
		"REDIS_PASSWORD":        "",
		"JWT_SECRET":            defaultJWTSecret,
		"APP_PORT":              defaultAppPort,
		"APP_ENV":               defaultAppEnv,
		"LOG_MONGO_COLLECTION":  "",
		"BRAINTREE_ENV":         "sandbox",
		"BRAINTREE_MERCHANT_ID": "",
		"BRAINTREE_PUBLIC_KEY":  "",
		"BRAINTREE_PRIVATE_KEY": "",
	}
}

func MongoURL() string {
	_ = Load()
	return get("MONGO_URL", defaultMongoURL)
}

func MongoDB() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// LogMongoCollection names the collection the async Mongo log handler writes
// to. Empty disables the handler.
func LogMongoCollection() string {
	_ = Load()
	return get("LOG_MONGO_COLLECTION", "")
}

// ── Braintree ────────────────────────────────────────────────────────────────

func BraintreeEnv() string {
	_ = Load()
	return get("BRAINTREE_ENV", "sandbox")
}

func BraintreeMerchantID() string { _ = Load(); return get("BRAINTREE_MERCHANT_ID", "") }
func BraintreePublicKey() string  { _ = Load(); return get("BRAINTREE_PUBLIC_KEY", "") }
func BraintreePrivateKey() string { _ = Load(); return get("BRAINTREE_PRIVATE_KEY", "") }

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Unknown keys fall through to the process environment.
func Get(key, fallback string) string {
	_ = Load()

	mu.RLock()
	v, ok := values[key]
	mu.RUnlock()
	if ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	if env := strings.TrimSpace(os.Getenv(key)); env != "" {
		return env
	}
	return fallback
}
