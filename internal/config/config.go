package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Serper     SerperConfig     `yaml:"serper" mapstructure:"serper"`
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds Serper.dev search API settings.
type SerperConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RateRPS float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// ApolloConfig holds Apollo.io enrichment API settings.
type ApolloConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RateRPS float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
	DraftModel string `yaml:"draft_model" mapstructure:"draft_model"`
}

// SalesforceConfig holds Salesforce JWT auth settings for the lead push.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// PipelineConfig configures enrichment behavior.
type PipelineConfig struct {
	// Strategy selects the identity extractor: "rule" or "model".
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
	// MatchPolicy is "domain_only" or "domain_then_company".
	MatchPolicy string `yaml:"match_policy" mapstructure:"match_policy"`
	// ResolveDomains enables the domain-resolution stage.
	ResolveDomains bool `yaml:"resolve_domains" mapstructure:"resolve_domains"`
	// UseBulkMatch routes MATCHING through the bulk endpoint.
	UseBulkMatch bool `yaml:"use_bulk_match" mapstructure:"use_bulk_match"`
	// DraftEmails generates a cold-outreach draft for each matched lead.
	DraftEmails bool `yaml:"draft_emails" mapstructure:"draft_emails"`
	// Product and ValueProp describe the pitch used in outreach drafts.
	// Campaign files and CLI flags override them per run.
	Product   string `yaml:"product" mapstructure:"product"`
	ValueProp string `yaml:"value_prop" mapstructure:"value_prop"`
	// SearchRetries is the bounded retry count for the SEARCHING stage
	// only; 0 means a single attempt.
	SearchRetries        int `yaml:"search_retries" mapstructure:"search_retries"`
	MaxWorkers           int `yaml:"max_workers" mapstructure:"max_workers"`
	MaxConcurrentTargets int `yaml:"max_concurrent_targets" mapstructure:"max_concurrent_targets"`
	ResultCount          int `yaml:"result_count" mapstructure:"result_count"`
	BulkBatchSize        int `yaml:"bulk_batch_size" mapstructure:"bulk_batch_size"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospect.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.rate_rps", 2.0)
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("apollo.rate_rps", 1.0)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.draft_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("pipeline.strategy", "rule")
	v.SetDefault("pipeline.match_policy", "domain_then_company")
	v.SetDefault("pipeline.resolve_domains", true)
	v.SetDefault("pipeline.use_bulk_match", false)
	v.SetDefault("pipeline.draft_emails", false)
	v.SetDefault("pipeline.product", "")
	v.SetDefault("pipeline.value_prop", "")
	v.SetDefault("pipeline.search_retries", 0)
	v.SetDefault("pipeline.max_workers", 5)
	v.SetDefault("pipeline.max_concurrent_targets", 3)
	v.SetDefault("pipeline.result_count", 10)
	v.SetDefault("pipeline.bulk_batch_size", 10)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
