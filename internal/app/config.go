package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (SHOP_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com/images)" flag:"image-base-url"`
	Stripe       StripeConfig
	Shipping     ShippingConfig
	Notify       NotifyConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// StripeConfig holds Stripe hosted-checkout settings.
type StripeConfig struct {
	APIKey     string `usage:"Stripe secret key (SHOP_STRIPE_APIKEY)" flag:"stripe-api-key"`
	Currency   string `default:"brl" usage:"ISO currency code for all line items"`
	SuccessURL string `usage:"Redirect target after successful payment" flag:"success-url"`
	CancelURL  string `usage:"Redirect target after cancelled payment" flag:"cancel-url"`
}

// ShippingConfig controls the flat shipping fee added to checkouts.
type ShippingConfig struct {
	Fee int64 `default:"1200" usage:"Flat shipping fee in minor currency units; 0 disables the shipping line"`
}

// NotifyConfig controls the owner-notification webhook.
type NotifyConfig struct {
	WebhookURL string        `usage:"Owner notification webhook URL (SHOP_NOTIFY_WEBHOOKURL)" flag:"notify-webhook-url"`
	Timeout    time.Duration `default:"10s" usage:"Notification delivery timeout"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/artecheiro/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch {
	case cfg.DatabaseURL == "":
		return nil, errors.New("database URL is required: set SHOP_DATABASE_URL or DATABASE_URL")
	case cfg.Stripe.APIKey == "":
		return nil, errors.New("Stripe API key is required: set SHOP_STRIPE_APIKEY or STRIPE_SECRET_KEY")
	case cfg.Stripe.SuccessURL == "" || cfg.Stripe.CancelURL == "":
		return nil, errors.New("checkout redirect URLs are required: set SHOP_STRIPE_SUCCESSURL and SHOP_STRIPE_CANCELURL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL, PORT,
// and STRIPE_SECRET_KEY to the application's SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.Stripe.APIKey == "" {
		if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
			c.Stripe.APIKey = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
