package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort       string
	KubeconfigPath string
	APIToken       string

	DefaultNamespace string
	BaseDomain       string

	CloudflareAPIURL   string
	CloudflareAPIToken string
	CloudflareZoneID   string

	DatabaseURL string

	MaxBodyBytes int64

	PropagationWait   time.Duration
	WarmupTimeout     time.Duration
	CorrectorAttempts int
	CorrectorInterval time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		KubeconfigPath: getEnv("KUBECONFIG", ""),
		APIToken:       os.Getenv("API_TOKEN"),

		DefaultNamespace: getEnv("DEFAULT_NAMESPACE", "default"),
		BaseDomain:       getEnv("BASE_DOMAIN", "apps.chiwei.dev"),

		CloudflareAPIURL:   getEnv("CLOUDFLARE_API_URL", ""),
		CloudflareAPIToken: os.Getenv("CLOUDFLARE_API_TOKEN"),
		CloudflareZoneID:   os.Getenv("CLOUDFLARE_ZONE_ID"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		MaxBodyBytes: int64(getInt("MAX_BODY_BYTES", 1<<20)),

		PropagationWait:   getDuration("PROPAGATION_WAIT", 3*time.Second),
		WarmupTimeout:     getDuration("WARMUP_TIMEOUT", 15*time.Second),
		CorrectorAttempts: getInt("CORRECTOR_ATTEMPTS", 30),
		CorrectorInterval: getDuration("CORRECTOR_INTERVAL", time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
