package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the process configuration and the startup catalog.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(LoadCatalog),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Logger     LoggerConfig
	Tracing    TracingConfig
	Downstream DownstreamConfig
	Email      EmailConfig

	// CatalogPath overrides the search paths used for facade.yml.
	CatalogPath string
}

type LoggerConfig struct {
	Level  string
	Format string
}

// TracingConfig follows the standard OTEL_* variables.
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// DownstreamConfig points at the account and organisation services the facade fronts.
type DownstreamConfig struct {
	AccountsBaseURL string
	Timeout         time.Duration
	// BearerToken is issued by the external credential provider and injected per call.
	BearerToken string
}

type EmailConfig struct {
	Provider string

	NotifyBaseURL string
	NotifyAPIKey  string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	SMTPTemplatesDir string
}

const (
	EmailProviderNotify = "notify"
	EmailProviderSMTP   = "smtp"
	EmailProviderNoop   = "noop"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "account-facade"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Logger: LoggerConfig{
			Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenv("LOG_FORMAT", "json")),
		},
		Tracing: TracingConfig{
			Enabled:       getenvBool("OTEL_ENABLED", false),
			Endpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
			Protocol:      otlpProtocol(),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Downstream: DownstreamConfig{
			AccountsBaseURL: strings.TrimRight(strings.TrimSpace(getenv("ACCOUNTS_BASE_URL", "http://localhost:5000")), "/"),
			Timeout:         getenvDuration("DOWNSTREAM_TIMEOUT", 15*time.Second),
			BearerToken:     strings.TrimSpace(getenv("DOWNSTREAM_BEARER_TOKEN", "")),
		},
		Email: EmailConfig{
			Provider:         normalizeEmailProvider(getenv("EMAIL_PROVIDER", EmailProviderNoop)),
			NotifyBaseURL:    strings.TrimRight(getenv("NOTIFY_BASE_URL", "https://api.notifications.service.gov.uk"), "/"),
			NotifyAPIKey:     strings.TrimSpace(getenv("NOTIFY_API_KEY", "")),
			SMTPHost:         getenv("SMTP_HOST", "localhost"),
			SMTPPort:         getenvInt("SMTP_PORT", 1025),
			SMTPUsername:     strings.TrimSpace(getenv("SMTP_USERNAME", "")),
			SMTPPassword:     strings.TrimSpace(getenv("SMTP_PASSWORD", "")),
			SMTPFrom:         getenv("SMTP_FROM", "no-reply@example.com"),
			SMTPTemplatesDir: getenv("SMTP_TEMPLATES_DIR", "templates/email"),
		},
		CatalogPath: strings.TrimSpace(getenv("FACADE_CATALOG_PATH", "")),
	}
}

func normalizeEmailProvider(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case EmailProviderNotify, EmailProviderSMTP:
		return value
	default:
		return EmailProviderNoop
	}
}

// otlpProtocol prefers the traces-specific override.
func otlpProtocol() string {
	protocol := getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))
	return strings.ToLower(strings.TrimSpace(protocol))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
