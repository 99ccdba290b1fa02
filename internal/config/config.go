package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RemotePostgres = "postgres"
	RemoteMongo    = "mongo"

	LocalSQLite = "sqlite"
	LocalRedis  = "redis"
)

const defaultLaunchDate = "2025-08-20T00:00:00-03:00"

type Config struct {
	Environment    string   // ENV: production, development, etc.
	Port           string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	RemoteBackend  string // REMOTE_BACKEND: postgres, mongo or empty for local-only
	PostgresURI    string
	MongoURI       string
	SelfHealSchema bool
	PolicyRole     string
	RemoteTimeout  time.Duration

	LocalBackend string // LOCAL_BACKEND: sqlite or redis
	LocalDBPath  string
	RedisURI     string

	LaunchDate         time.Time
	VideoID            string
	VideoProvider      string
	PlayerReadyTimeout time.Duration
	WhatsAppNumber     string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SessionTTL      time.Duration
	DefaultLanguage string
}

// Load reads the environment. Malformed values are errors, not defaults.
func Load() (*Config, error) {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	launch, err := time.Parse(time.RFC3339, getEnv("LAUNCH_DATE", defaultLaunchDate))
	if err != nil {
		return nil, fmt.Errorf("invalid LAUNCH_DATE: %w", err)
	}
	selfHeal, err := getBool("SELF_HEAL_SCHEMA", true)
	if err != nil {
		return nil, err
	}
	remoteTimeout, err := getDuration("REMOTE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	readyTimeout, err := getDuration("PLAYER_READY_TIMEOUT", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getDuration("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:         env,
		Port:                getEnv("PORT", "8080"),
		AllowedOrigins:      allowedOrigins,
		RemoteBackend:       strings.ToLower(strings.TrimSpace(getEnv("REMOTE_BACKEND", ""))),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		SelfHealSchema:      selfHeal,
		PolicyRole:          getEnv("POLICY_ROLE", "anon"),
		RemoteTimeout:       remoteTimeout,
		LocalBackend:        strings.ToLower(strings.TrimSpace(getEnv("LOCAL_BACKEND", LocalSQLite))),
		LocalDBPath:         getEnv("LOCAL_DB_PATH", "funnel.db"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		LaunchDate:          launch,
		VideoID:             getEnv("VIDEO_ID", "dQw4w9WgXcQ"),
		VideoProvider:       strings.ToLower(strings.TrimSpace(getEnv("VIDEO_PROVIDER", "youtube"))),
		PlayerReadyTimeout:  readyTimeout,
		WhatsAppNumber:      getEnv("WHATSAPP_NUMBER", "554399196721"),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		SessionTTL:          sessionTTL,
		DefaultLanguage:     strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_LANGUAGE", "pt"))),
	}

	switch cfg.RemoteBackend {
	case "", RemotePostgres, RemoteMongo:
	default:
		return nil, fmt.Errorf("invalid REMOTE_BACKEND %q", cfg.RemoteBackend)
	}
	switch cfg.LocalBackend {
	case LocalSQLite, LocalRedis:
	default:
		return nil, fmt.Errorf("invalid LOCAL_BACKEND %q", cfg.LocalBackend)
	}
	return cfg, nil
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// RemoteConfigured reports whether a remote lead store has both a backend and its URI.
func (c *Config) RemoteConfigured() bool {
	switch c.RemoteBackend {
	case RemotePostgres:
		return c.PostgresURI != ""
	case RemoteMongo:
		return c.MongoURI != ""
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
