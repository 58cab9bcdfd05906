package pricing

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"networth-api/pkg/confkit"
)

// Config describes the pricing providers available to the application.
type Config struct {
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures a single pricing provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url"`

	// Overrides maps asset symbols to the symbol actually quoted upstream,
	// e.g. ETH2 -> ETH.
	Overrides map[string]string `yaml:"overrides"`

	// Prices seeds a static provider with fixed unit prices.
	Prices map[string]string `yaml:"prices"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// Builder constructs a Provider from configuration.
type Builder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	builderRegistry   = make(map[string]Builder)
	builderRegistryMu sync.RWMutex
)

// RegisterBuilder registers a pricing provider constructor by type name.
func RegisterBuilder(typeName string, builder Builder) {
	builderRegistryMu.Lock()
	defer builderRegistryMu.Unlock()
	builderRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupBuilder(typeName string) (Builder, bool) {
	builderRegistryMu.RLock()
	defer builderRegistryMu.RUnlock()
	builder, ok := builderRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads pricing configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pricing config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pricing config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal pricing config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.Type = strings.TrimSpace(os.ExpandEnv(provider.Type))
		provider.BaseURL = strings.TrimSpace(os.ExpandEnv(provider.BaseURL))
		provider.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(provider.HTTPTimeoutRaw))
		if provider.HTTPTimeoutRaw != "" {
			d, err := time.ParseDuration(provider.HTTPTimeoutRaw)
			if err != nil {
				return fmt.Errorf("pricing provider %s: invalid http_timeout %q: %w", name, provider.HTTPTimeoutRaw, err)
			}
			if d <= 0 {
				return fmt.Errorf("pricing provider %s: http_timeout must be positive, got %s", name, d)
			}
			provider.HTTPTimeout = d
		}
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("pricing config: providers cannot be empty")
	}
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return fmt.Errorf("pricing config: default provider %q not defined", c.Default)
		}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("pricing config: provider name cannot be empty")
		}
		if provider == nil {
			return fmt.Errorf("pricing config: provider %s is nil", name)
		}
		if strings.TrimSpace(provider.Type) == "" {
			return fmt.Errorf("pricing config: provider %s must specify type", name)
		}
		if _, ok := lookupBuilder(provider.Type); !ok {
			return fmt.Errorf("pricing config: provider %s has unsupported type %q", name, provider.Type)
		}
	}
	return nil
}

// BuildProviders instantiates all configured pricing providers.
func (c *Config) BuildProviders() (map[string]Provider, error) {
	result := make(map[string]Provider, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("pricing provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("pricing provider %s: %w", name, err)
		}
		result[name] = provider
	}
	return result, nil
}

// BuildDefault instantiates the default provider (or the only one when no
// default is named).
func (c *Config) BuildDefault() (Provider, error) {
	providers, err := c.BuildProviders()
	if err != nil {
		return nil, err
	}
	if c.Default != "" {
		return providers[c.Default], nil
	}
	if len(providers) == 1 {
		for _, p := range providers {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pricing config: default provider must be named when several are configured")
}
