package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

const (
	StateModeSigned = "signed"
	StateModePlain  = "plain"
)

type Config struct {
	Server     ServerConfig   `env:",prefix=SERVER_"`
	Postgres   PostgresConfig `env:",prefix=POSTGRES_"`
	Redis      RedisConfig    `env:",prefix=REDIS_"`
	State      StateConfig    `env:",prefix=STATE_"`
	OAuth      OAuthConfig    `env:",prefix=OAUTH_"`
	Google     ProviderConfig `env:",prefix=GOOGLE_"`
	Outlook    ProviderConfig `env:",prefix=OUTLOOK_"`
	Xero       ProviderConfig `env:",prefix=XERO_"`
	QuickBooks ProviderConfig `env:",prefix=QUICKBOOKS_"`
	Security   SecurityConfig `env:",prefix="`
	CORS       CORSConfig     `env:",prefix=CORS_"`
	Env        string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=30s"`
}

type PostgresConfig struct {
	URL         string `env:"URL"`
	Host        string `env:"HOST,default=localhost"`
	Port        string `env:"PORT,default=5432"`
	User        string `env:"USER,default=oauth_broker"`
	Password    string `env:"PASSWORD,default=oauth_broker_password"`
	DBName      string `env:"DB,default=oauth_broker_db"`
	SSLMode     string `env:"SSLMODE,default=disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE,default=false"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// StateConfig controls how the OAuth state parameter is encoded.
type StateConfig struct {
	Mode   string   `env:"MODE,default=signed"`
	Secret string   `env:"SECRET"`
	TTL    Duration `env:"TTL,default=10m"`
}

type OAuthConfig struct {
	ProviderTimeout Duration `env:"PROVIDER_TIMEOUT,default=10s"`
}

// ProviderConfig holds credentials and endpoints of a single OAuth provider.
// Empty endpoint, scope and frontend values are filled with provider defaults.
type ProviderConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURI  string   `env:"REDIRECT_URI"`
	TenantID     string   `env:"TENANT_ID"`
	AuthURL      string   `env:"AUTH_URL"`
	TokenURL     string   `env:"TOKEN_URL"`
	UserInfoURL  string   `env:"USERINFO_URL"`
	FrontendURL  string   `env:"FRONTEND_URL"`
	Scopes       []string `env:"SCOPES"`
}

// Enabled reports whether the provider has client credentials configured.
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != ""
}

type SecurityConfig struct {
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=20"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.ApplyProviderDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	switch c.State.Mode {
	case StateModeSigned:
		if len(c.State.Secret) < 32 {
			return fmt.Errorf("STATE_SECRET must be at least 32 characters long")
		}
	case StateModePlain:
	default:
		return fmt.Errorf("STATE_MODE must be %q or %q, got %q", StateModeSigned, StateModePlain, c.State.Mode)
	}

	if c.OAuth.ProviderTimeout.Duration <= 0 {
		return fmt.Errorf("OAUTH_PROVIDER_TIMEOUT must be positive")
	}

	for name, p := range map[string]ProviderConfig{
		"GOOGLE":     c.Google,
		"OUTLOOK":    c.Outlook,
		"XERO":       c.Xero,
		"QUICKBOOKS": c.QuickBooks,
	} {
		if p.Enabled() && (p.ClientSecret == "" || p.RedirectURI == "") {
			return fmt.Errorf("%s_CLIENT_SECRET and %s_REDIRECT_URI are required when %s_CLIENT_ID is set", name, name, name)
		}
	}

	return nil
}

// ApplyProviderDefaults fills provider endpoints, scopes and frontend URLs
// that were not overridden through the environment.
func (c *Config) ApplyProviderDefaults() {
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = "common"
	}
	outlookBase := "https://login.microsoftonline.com/" + c.Outlook.TenantID + "/oauth2/v2.0"

	applyDefaults(&c.Google, ProviderConfig{
		AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:    "https://oauth2.googleapis.com/token",
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		FrontendURL: "https://invnudge.com/setup-3",
		Scopes:      []string{"openid", "email", "profile"},
	})
	applyDefaults(&c.Outlook, ProviderConfig{
		AuthURL:     outlookBase + "/authorize",
		TokenURL:    outlookBase + "/token",
		UserInfoURL: "https://graph.microsoft.com/v1.0/me",
		FrontendURL: "https://invnudge.com/setup-3",
		Scopes:      []string{"openid", "profile", "email", "offline_access", "User.Read", "Mail.Read", "Mail.ReadWrite", "Mail.Send"},
	})
	applyDefaults(&c.Xero, ProviderConfig{
		AuthURL:     "https://login.xero.com/identity/connect/authorize",
		TokenURL:    "https://identity.xero.com/connect/token",
		UserInfoURL: "https://api.xero.com/connections",
		FrontendURL: "https://invnudge.com/setup-2",
		Scopes:      []string{"openid", "profile", "email", "offline_access", "accounting.transactions", "accounting.contacts"},
	})
	applyDefaults(&c.QuickBooks, ProviderConfig{
		AuthURL:     "https://appcenter.intuit.com/connect/oauth2",
		TokenURL:    "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer",
		UserInfoURL: "https://sandbox-accounts.platform.intuit.com/v1/openid_connect/userinfo",
		FrontendURL: "https://invnudge.com/setup-2",
		Scopes:      []string{"com.intuit.quickbooks.accounting", "openid", "profile", "email", "phone", "address"},
	})
}

func applyDefaults(p *ProviderConfig, d ProviderConfig) {
	if p.AuthURL == "" {
		p.AuthURL = d.AuthURL
	}
	if p.TokenURL == "" {
		p.TokenURL = d.TokenURL
	}
	if p.UserInfoURL == "" {
		p.UserInfoURL = d.UserInfoURL
	}
	if p.FrontendURL == "" {
		p.FrontendURL = d.FrontendURL
	}
	if len(p.Scopes) == 0 {
		p.Scopes = d.Scopes
	}
	p.FrontendURL = strings.TrimRight(p.FrontendURL, "/")
}
