// Package config reads process settings from the environment, loading a
// local .env file first when one exists.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"wayfinder/internal/persistence"
)

type Config struct {
	Port             string
	PostgresURL      string
	JWTSecret        string
	SessionTTL       time.Duration
	StorageNamespace string
	BackendBaseURL   string
	BackendTimeout   time.Duration
	MapboxToken      string
	ChatProvider     string
	GeminiAPIKey     string
	GeminiModel      string
	OpenAIAPIKey     string
	OpenAIModel      string
	LogLevel         string
	AllowedOrigins   []string
}

// Load reads .env (if present) and the environment. Values already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		PostgresURL:      os.Getenv("POSTGRES_URL"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		SessionTTL:       getDuration("SESSION_TTL", 30*24*time.Hour),
		StorageNamespace: getEnv("STORAGE_NAMESPACE", persistence.DefaultNamespace),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		BackendTimeout:   getDuration("BACKEND_TIMEOUT", 30*time.Second),
		MapboxToken:      os.Getenv("MAPBOX_ACCESS_TOKEN"),
		ChatProvider:     getEnv("CHAT_PROVIDER", "gemini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      os.Getenv("OPENAI_MODEL"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// ChatAPIKey is the key for whichever provider CHAT_PROVIDER names.
func (c *Config) ChatAPIKey() string {
	if strings.EqualFold(c.ChatProvider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func (c *Config) ChatModel() string {
	if strings.EqualFold(c.ChatProvider, "openai") {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// getDuration accepts Go duration strings ("72h") or a plain number of
// seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func getList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
