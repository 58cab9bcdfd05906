package provider

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"networth-api/pkg/confkit"
)

// Config describes the holdings sources available to the application.
type Config struct {
	Sources map[string]*SourceConfig `yaml:"sources"`
}

// SourceConfig configures a single holdings source. Fields not relevant to a
// source type are simply ignored by its builder.
type SourceConfig struct {
	Type string `yaml:"type"`

	// ContainerID overrides the default container id for single-container
	// sources.
	ContainerID string `yaml:"container_id"`

	BaseURL string `yaml:"base_url"`

	// Coinbase CDP API credentials. Values are environment-expanded, so
	// configs usually carry ${COINBASE_API_KEY} style references.
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	// Plaid credentials.
	ClientID string `yaml:"client_id"`
	Secret   string `yaml:"secret"`

	// Path points a cold-storage source at its holdings file.
	Path string `yaml:"path"`

	// EthRPCURL enables on-chain balance lookups for cold-storage watch
	// addresses when set.
	EthRPCURL string `yaml:"eth_rpc_url"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// Builder constructs a Provider from configuration and shared dependencies.
type Builder func(name string, cfg *SourceConfig, deps Deps) (Provider, error)

var (
	builderRegistry   = make(map[string]Builder)
	builderRegistryMu sync.RWMutex
)

// RegisterBuilder registers a source constructor by type name.
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

// LoadConfig reads source configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provider config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal provider config: %w", err)
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
	if c.Sources == nil {
		c.Sources = make(map[string]*SourceConfig)
	}
	for name, source := range c.Sources {
		if source == nil {
			source = &SourceConfig{}
			c.Sources[name] = source
		}
		source.Type = strings.TrimSpace(os.ExpandEnv(source.Type))
		source.ContainerID = strings.TrimSpace(os.ExpandEnv(source.ContainerID))
		source.BaseURL = strings.TrimSpace(os.ExpandEnv(source.BaseURL))
		source.APIKey = strings.TrimSpace(os.ExpandEnv(source.APIKey))
		source.APISecret = os.ExpandEnv(source.APISecret)
		source.ClientID = strings.TrimSpace(os.ExpandEnv(source.ClientID))
		source.Secret = strings.TrimSpace(os.ExpandEnv(source.Secret))
		source.Path = strings.TrimSpace(os.ExpandEnv(source.Path))
		source.EthRPCURL = strings.TrimSpace(os.ExpandEnv(source.EthRPCURL))
		source.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(source.HTTPTimeoutRaw))
		if source.HTTPTimeoutRaw != "" {
			d, err := time.ParseDuration(source.HTTPTimeoutRaw)
			if err != nil {
				return fmt.Errorf("source %s: invalid http_timeout %q: %w", name, source.HTTPTimeoutRaw, err)
			}
			if d <= 0 {
				return fmt.Errorf("source %s: http_timeout must be positive, got %s", name, d)
			}
			source.HTTPTimeout = d
		}
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("provider config: sources cannot be empty")
	}
	for name, source := range c.Sources {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("provider config: source name cannot be empty")
		}
		if source == nil {
			return fmt.Errorf("provider config: source %s is nil", name)
		}
		if strings.TrimSpace(source.Type) == "" {
			return fmt.Errorf("provider config: source %s must specify type", name)
		}
		if _, ok := lookupBuilder(source.Type); !ok {
			return fmt.Errorf("provider config: source %s has unsupported type %q", name, source.Type)
		}
	}
	return nil
}

// BuildProviders instantiates all configured sources in stable name order.
func (c *Config) BuildProviders(deps Deps) ([]Provider, error) {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Provider, 0, len(names))
	for _, name := range names {
		sourceCfg := c.Sources[name]
		builder, ok := lookupBuilder(sourceCfg.Type)
		if !ok {
			return nil, fmt.Errorf("source %s: unsupported type %q", name, sourceCfg.Type)
		}
		p, err := builder(name, sourceCfg, deps)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		result = append(result, p)
	}
	return result, nil
}
