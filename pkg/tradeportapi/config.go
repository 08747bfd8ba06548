package tradeportapi

import (
	"crypto/ed25519"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
	"github.com/tradeport/tradeport-go/pkg/auth"
	"github.com/tradeport/tradeport-go/pkg/envvar"
	"github.com/tradeport/tradeport-go/pkg/ratelimit"
)

// Config is the client construction surface. Zero values fall back to
// defaults inside NewClientWithConfig; validation happens eagerly so a bad
// deployment fails at startup, not on the first trade.
type Config struct {
	// KeyID is the public key identifier registered with the exchange.
	KeyID string

	// PrivateSeed is the base64 encoding of the 32-byte Ed25519 seed. It is
	// consumed during Auth and never stored on the client.
	PrivateSeed string

	BaseURL string
	Timeout time.Duration

	RateLimit ratelimit.Config

	Debug bool
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: ProductionAPIURL,
		Timeout: defaultHTTPTimeout,
		RateLimit: ratelimit.Config{
			MaxRequests:   100,
			BurstCapacity: 100,
			Window:        10 * time.Second,
		},
	}
}

// ConfigFromEnv loads the configuration from TRADEPORT_* environment
// variables, falling back to defaults for anything unset.
func ConfigFromEnv() *Config {
	config := DefaultConfig()

	config.KeyID, _ = envvar.String("TRADEPORT_API_KEY_ID")
	config.PrivateSeed, _ = envvar.String("TRADEPORT_API_SECRET_SEED")

	if v, ok := envvar.String("TRADEPORT_API_URL"); ok {
		config.BaseURL = v
	}
	if v, ok := envvar.Duration("TRADEPORT_API_TIMEOUT"); ok {
		config.Timeout = v
	}
	if v, ok := envvar.Int("TRADEPORT_API_MAX_REQUESTS"); ok {
		config.RateLimit.MaxRequests = v
	}
	if v, ok := envvar.Int("TRADEPORT_API_BURST_CAPACITY"); ok {
		config.RateLimit.BurstCapacity = v
	}
	if v, ok := envvar.Duration("TRADEPORT_API_RATE_WINDOW"); ok {
		config.RateLimit.Window = v
	}
	config.Debug, _ = envvar.Bool("TRADEPORT_API_DEBUG")

	return config
}

// Validate checks every field and reports all violations in one
// ConfigurationError instead of failing on the first.
func (c *Config) Validate() error {
	var errs error

	if c.KeyID == "" {
		errs = multierr.Append(errs, errors.New("api key id is required"))
	}

	if c.PrivateSeed == "" {
		errs = multierr.Append(errs, errors.New("private seed is required"))
	} else {
		if seed, err := auth.DecodeBase64(c.PrivateSeed); err != nil {
			errs = multierr.Append(errs, errors.New("private seed is not valid base64"))
		} else if len(seed) != ed25519.SeedSize {
			errs = multierr.Append(errs, errors.Errorf("private seed must decode to %d bytes, got %d", ed25519.SeedSize, len(seed)))
		}
	}

	if c.BaseURL == "" {
		errs = multierr.Append(errs, errors.New("base url is required"))
	} else if u, err := url.ParseRequestURI(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = multierr.Append(errs, errors.Errorf("base url %q is not a valid http(s) url", c.BaseURL))
	}

	if c.Timeout <= 0 {
		errs = multierr.Append(errs, errors.New("timeout must be positive"))
	}

	if c.RateLimit.MaxRequests <= 0 {
		errs = multierr.Append(errs, errors.New("rate limit max requests must be positive"))
	}

	if c.RateLimit.Window < 0 {
		errs = multierr.Append(errs, errors.New("rate limit window must not be negative"))
	}

	if c.RateLimit.BurstCapacity < 0 {
		errs = multierr.Append(errs, errors.New("rate limit burst capacity must not be negative"))
	}

	if errs != nil {
		return &apierrors.ConfigurationError{Err: errs}
	}
	return nil
}
