package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"loan-calculator/internal/data"
	"loan-calculator/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Calculator CalculatorConfig `yaml:"calculator"`
}

type ServerConfig struct {
	Port        string          `yaml:"port"`
	Env         string          `yaml:"env"` // "production" switches gin to release mode
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	// Capacity requests per client IP are allowed every Refill. Zero disables the limiter.
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

type MarketDataConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	VsCurrency string        `yaml:"vs_currency"`
	Assets     []string      `yaml:"assets"`
	Timeout    time.Duration `yaml:"timeout"`
	// Optional: seed the snapshot from a file instead of (or before) the live fetch.
	SnapshotFile string `yaml:"snapshot_file"`
}

type SnapshotConfig struct {
	Backend   string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type CalculatorConfig struct {
	DefaultTermMonths    int    `yaml:"default_term_months"`
	DefaultLTVPercent    int    `yaml:"default_ltv_percent"`
	DefaultRepaymentMode string `yaml:"default_repayment_mode"`
	// ResetDelay is how long clients wait before resetting after an invalid amount.
	ResetDelay time.Duration `yaml:"reset_delay"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Capacity: 60,
				Refill:   time.Minute,
			},
		},
		MarketData: MarketDataConfig{
			BaseURL:    data.DefaultBaseURL,
			VsCurrency: "usd",
			Assets:     append([]string(nil), data.DefaultAssets...),
			Timeout:    10 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
		},
		Calculator: CalculatorConfig{
			DefaultTermMonths:    model.DefaultTermMonths,
			DefaultLTVPercent:    model.DefaultLTVPercent,
			DefaultRepaymentMode: string(model.DefaultRepaymentMode),
			ResetDelay:           3 * time.Second,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads path over the defaults but does not validate.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays the environment variables the deployment uses.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("MARKET_DATA_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Snapshot.RedisAddr = v
		c.Snapshot.Backend = "redis"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if c.Server.RateLimit.Capacity < 0 {
		return errors.New("server.rate_limit.capacity must be >= 0")
	}
	if c.Server.RateLimit.Capacity > 0 && c.Server.RateLimit.Refill <= 0 {
		return errors.New("server.rate_limit.refill must be > 0 when the limiter is enabled")
	}
	if len(c.MarketData.Assets) == 0 {
		return errors.New("market_data.assets must name at least one asset")
	}
	if c.MarketData.Timeout <= 0 {
		return errors.New("market_data.timeout must be > 0")
	}
	switch c.Snapshot.Backend {
	case "memory":
	case "redis":
		if c.Snapshot.RedisAddr == "" {
			return errors.New("snapshot.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported snapshot.backend: %q", c.Snapshot.Backend)
	}
	if c.Calculator.ResetDelay < 0 {
		return errors.New("calculator.reset_delay must be >= 0")
	}

	// Defaults must themselves be valid choices.
	if _, err := model.TierByPercent(c.Calculator.DefaultLTVPercent); err != nil {
		return fmt.Errorf("calculator.default_ltv_percent: %w", err)
	}
	if _, err := model.ParseRepaymentMode(c.Calculator.DefaultRepaymentMode); err != nil {
		return fmt.Errorf("calculator.default_repayment_mode: %w", err)
	}
	t := c.Calculator.DefaultTermMonths
	if t < model.MinTermMonths || t > model.MaxTermMonths {
		return fmt.Errorf("calculator.default_term_months must be in [%d, %d]", model.MinTermMonths, model.MaxTermMonths)
	}
	return nil
}

// Defaults builds the LoanInput a blank form starts from.
func (c CalculatorConfig) Defaults() model.LoanInput {
	tier, err := model.TierByPercent(c.DefaultLTVPercent)
	if err != nil {
		tier, _ = model.TierByPercent(model.DefaultLTVPercent)
	}
	mode, err := model.ParseRepaymentMode(c.DefaultRepaymentMode)
	if err != nil {
		mode = model.DefaultRepaymentMode
	}
	term := c.DefaultTermMonths
	if term == 0 {
		term = model.DefaultTermMonths
	}
	return model.LoanInput{
		Amount:            model.DefaultAmount,
		TermMonths:        term,
		AnnualRatePercent: tier.AnnualRatePercent,
		RepaymentMode:     mode,
	}
}
