package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for OmniChat
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Search    SearchConfig    `mapstructure:"search"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SearchConfig holds search engine credentials. Presence of a credential
// gates whether the matching connector is eligible.
type SearchConfig struct {
	Google     GoogleSearchConfig `mapstructure:"google"`
	Serper     KeyedEngineConfig  `mapstructure:"serper"`
	Tavily     KeyedEngineConfig  `mapstructure:"tavily"`
	Brave      KeyedEngineConfig  `mapstructure:"brave"`
	DuckDuckGo DuckDuckGoConfig   `mapstructure:"duckduckgo"`
}

// GoogleSearchConfig holds Google Custom Search credentials
type GoogleSearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
}

// KeyedEngineConfig holds a single-key search engine credential
type KeyedEngineConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DuckDuckGoConfig controls the keyless DuckDuckGo connector
type DuckDuckGoConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ProvidersConfig holds AI completion provider configuration
type ProvidersConfig struct {
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Gemini    ProviderConfig `mapstructure:"gemini"`
}

// ProviderConfig holds one completion provider's credentials and model pin.
// Model overrides the connector's default model identifier.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// SynthesisConfig designates the arbiter provider for multi-model synthesis
// and the fallback provider for search summaries.
type SynthesisConfig struct {
	Provider string `mapstructure:"provider"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables, e.g. OMNICHAT_PROVIDERS_OPENAI_API_KEY
	v.SetEnvPrefix("OMNICHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.path", "./data/omnichat.db")

	v.SetDefault("search.google.api_key", "")
	v.SetDefault("search.google.engine_id", "")
	v.SetDefault("search.serper.api_key", "")
	v.SetDefault("search.tavily.api_key", "")
	v.SetDefault("search.brave.api_key", "")
	v.SetDefault("search.duckduckgo.enabled", true)

	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.model", "")
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.model", "")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.model", "")

	v.SetDefault("synthesis.provider", "openai")
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
