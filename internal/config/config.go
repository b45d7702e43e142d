package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/Skotchmaster/taskgate/internal/directory"
	pkgconfig "github.com/Skotchmaster/taskgate/pkg/config"
	pkgdb "github.com/Skotchmaster/taskgate/pkg/db"
)

type Store struct {
	pkgdb.Params
	Table        string
	QueryTimeout time.Duration
}

type Config struct {
	ServiceName string
	LogLevel    string
	LogFormat   string

	Host        string
	Port        string
	TLSCertFile string
	TLSKeyFile  string

	Directory directory.Config
	Store     Store

	JWTSecret       []byte
	TokenTTL        time.Duration
	TokenCookieName string
	CookieSecure    bool

	LoginRateLimit  int
	LoginRateWindow time.Duration

	KafkaBrokers   []string
	KafkaAuthTopic string
}

func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func Load() (*Config, error) {
	ttl, err := pkgconfig.ParseDuration(pkgconfig.EnvDefault("JWT_EXPIRATION", "1h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRATION: %w", err)
	}

	cfg := &Config{
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "taskgate"),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		LogFormat:   pkgconfig.EnvDefault("LOG_FORMAT", "json"),

		Host:        pkgconfig.EnvDefault("API_HOST", "localhost"),
		Port:        pkgconfig.EnvDefault("API_PORT", "3000"),
		TLSCertFile: envOr("TLS_CERT_FILE", "./certs/cert.pem"),
		TLSKeyFile:  envOr("TLS_KEY_FILE", "./certs/key.pem"),

		Directory: directory.Config{
			URL:          os.Getenv("AD_SERVER"),
			Domain:       os.Getenv("AD_DOMAIN"),
			BindUser:     os.Getenv("AD_USER"),
			BindPassword: os.Getenv("AD_PASSWORD"),
			SearchBase:   os.Getenv("AD_SEARCH_BASE"),
			GroupDN:      os.Getenv("AD_GROUP_DN"),
			Timeout:      pkgconfig.EnvDurationDefault("AD_TIMEOUT", 10*time.Second),
		},

		Store: Store{
			Params: pkgdb.Params{
				Driver:   strings.ToLower(pkgconfig.EnvDefault("DB_DRIVER", pkgdb.DriverSQLServer)),
				DSN:      os.Getenv("DATABASE_URL"),
				Host:     os.Getenv("DB_HOST"),
				Port:     os.Getenv("DB_PORT"),
				User:     os.Getenv("DB_USER"),
				Password: os.Getenv("DB_PASSWORD"),
				Name:     os.Getenv("DB_NAME"),
			},
			Table:        pkgconfig.EnvDefault("DB_TABLE", "MonitorLog"),
			QueryTimeout: pkgconfig.EnvDurationDefault("DB_QUERY_TIMEOUT", 15*time.Second),
		},

		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:        ttl,
		TokenCookieName: pkgconfig.EnvDefault("TOKEN_COOKIE_NAME", "token"),
		CookieSecure:    pkgconfig.EnvBoolDefault("COOKIE_SECURE", true),

		LoginRateLimit:  pkgconfig.EnvIntDefault("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: pkgconfig.EnvDurationDefault("LOGIN_RATE_WINDOW", 15*time.Minute),

		KafkaBrokers:   pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaAuthTopic: pkgconfig.EnvDefault("KAFKA_AUTH_TOPIC", "auth_events"),
	}

	var req pkgconfig.Required
	req.NonEmpty(cfg.Directory.URL, "AD_SERVER")
	req.NonEmpty(cfg.Directory.SearchBase, "AD_SEARCH_BASE")
	req.NonEmpty(cfg.Directory.GroupDN, "AD_GROUP_DN")
	req.NonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	if cfg.Store.DSN == "" {
		if cfg.Store.Driver == pkgdb.DriverSQLite {
			req.NonEmpty(cfg.Store.Name, "DB_NAME")
		} else {
			req.NonEmpty(cfg.Store.Host, "DB_HOST")
			req.NonEmpty(cfg.Store.Name, "DB_NAME")
		}
	}
	if err := req.Err(); err != nil {
		return nil, err
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if cfg.LoginRateLimit <= 0 || cfg.LoginRateWindow <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive")
	}

	return cfg, nil
}

// envOr keeps an explicitly empty value, which switches TLS off.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
