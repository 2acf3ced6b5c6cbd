package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Session
	SessionSecret string
	SessionMaxAge int

	// Geocoding
	GeocodeEndpoint string
	GeocodeAPIKey   string
	GeocodeTimeout  time.Duration

	// Media Upload
	MediaUploadURL    string
	MediaUploadPreset string
	UploadTimeout     time.Duration
	UploadMaxSize     int64

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// defaultGeocodeEndpoint はOpenCage互換のジオコーディングAPIエンドポイント。
const defaultGeocodeEndpoint = "https://api.opencagedata.com/geocode/v1/json"

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.GeocodeAPIKey = os.Getenv("OPENCAGE_API_KEY")
	if cfg.GeocodeAPIKey == "" {
		missing = append(missing, "OPENCAGE_API_KEY")
	}

	cfg.MediaUploadURL = os.Getenv("MEDIA_UPLOAD_URL")
	if cfg.MediaUploadURL == "" {
		missing = append(missing, "MEDIA_UPLOAD_URL")
	}

	cfg.MediaUploadPreset = os.Getenv("MEDIA_UPLOAD_PRESET")
	if cfg.MediaUploadPreset == "" {
		missing = append(missing, "MEDIA_UPLOAD_PRESET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.GeocodeEndpoint = getEnvString("GEOCODE_ENDPOINT", defaultGeocodeEndpoint)
	cfg.GeocodeTimeout = getEnvDuration("GEOCODE_TIMEOUT", 10*time.Second)
	cfg.UploadTimeout = getEnvDuration("UPLOAD_TIMEOUT", 30*time.Second)
	cfg.UploadMaxSize = getEnvInt64("UPLOAD_MAX_SIZE", 5242880)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
