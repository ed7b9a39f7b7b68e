// Package config loads gateway settings from the environment, optionally seeded
// from .env files.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"applygate/pkg/platform/privacy"
	pstrings "applygate/pkg/platform/strings"
)

const (
	// PrimaryPort is tried first when PORT is unset.
	PrimaryPort = 5000
	// FallbackPort is used when PrimaryPort is taken.
	FallbackPort = 5001
)

// DefaultOrigins are always allowed by CORS.
var DefaultOrigins = []string{
	"https://alloydemo.vercel.app",
	"http://localhost:3000",
	"http://localhost:3001",
}

// Config captures everything the server needs at startup. It is built once and
// passed explicitly to constructors.
type Config struct {
	// Port is the listen port; 0 means probe PrimaryPort then FallbackPort.
	Port int

	ProviderURL    string
	ProviderToken  string
	ProviderSecret string
	SchemaVersion  string

	FrontendOrigins []string

	LogLevel  string
	LogFormat string

	MaskEmailVisible int
	MaskSSNVisible   int

	AuditKafkaBrokers []string
	AuditKafkaTopic   string
}

// Load reads configuration from the environment. envFiles are loaded first when
// they exist; they never override variables already set in the process.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PROVIDER_URL", "https://sandbox.alloy.co/v1/evaluations")
	v.SetDefault("PROVIDER_SCHEMA_VERSION", "v2")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MASK_EMAIL_VISIBLE", 3)
	v.SetDefault("MASK_SSN_VISIBLE", 0)
	v.SetDefault("AUDIT_KAFKA_TOPIC", "applicant-evaluations")

	cfg := &Config{
		ProviderURL:       v.GetString("PROVIDER_URL"),
		ProviderToken:     v.GetString("ALLOY_WORKFLOW_TOKEN"),
		ProviderSecret:    v.GetString("ALLOY_WORKFLOW_SECRET"),
		SchemaVersion:     v.GetString("PROVIDER_SCHEMA_VERSION"),
		FrontendOrigins:   pstrings.SplitList(v.GetString("FRONTEND_ORIGIN")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		AuditKafkaBrokers: pstrings.SplitList(v.GetString("AUDIT_KAFKA_BROKERS")),
		AuditKafkaTopic:   v.GetString("AUDIT_KAFKA_TOPIC"),
	}

	var err error
	if cfg.Port, err = intSetting(v, "PORT"); err != nil {
		return nil, err
	}
	if cfg.MaskEmailVisible, err = intSetting(v, "MASK_EMAIL_VISIBLE"); err != nil {
		return nil, err
	}
	if cfg.MaskSSNVisible, err = intSetting(v, "MASK_SSN_VISIBLE"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.MaskEmailVisible < 0 || c.MaskSSNVisible < 0 {
		return errors.New("mask visible counts must not be negative")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// AllowedOrigins returns DefaultOrigins plus any configured frontend origins,
// without duplicates.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(DefaultOrigins)+len(c.FrontendOrigins))
	origins = append(origins, DefaultOrigins...)
	return pstrings.DedupeAndTrim(append(origins, c.FrontendOrigins...))
}

// Masker returns the PII masker configured by MASK_*_VISIBLE.
func (c *Config) Masker() privacy.Masker {
	return privacy.Masker{EmailVisible: c.MaskEmailVisible, SSNVisible: c.MaskSSNVisible}
}

// AuditToKafka reports whether audit events go to Kafka instead of the log.
func (c *Config) AuditToKafka() bool {
	return len(c.AuditKafkaBrokers) > 0
}

// ListenAddr returns the address to bind. An explicit Port is used as-is;
// otherwise PrimaryPort is used when available reports it free, else
// FallbackPort.
func (c *Config) ListenAddr(available func(port int) bool) string {
	if c.Port != 0 {
		return ":" + strconv.Itoa(c.Port)
	}
	if available(PrimaryPort) {
		return ":" + strconv.Itoa(PrimaryPort)
	}
	return ":" + strconv.Itoa(FallbackPort)
}

// PortAvailable reports whether a TCP listener can bind port right now.
func PortAvailable(port int) bool {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
