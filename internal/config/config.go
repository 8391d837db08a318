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
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Cluster   ClusterConfig   `yaml:"cluster" mapstructure:"cluster"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ExtractConfig configures candidate extraction.
type ExtractConfig struct {
	NEREnabled  bool   `yaml:"ner_enabled" mapstructure:"ner_enabled"`
	NERMaxChars int    `yaml:"ner_max_chars" mapstructure:"ner_max_chars"`
	LexiconPath string `yaml:"lexicon_path" mapstructure:"lexicon_path"`
}

// ClusterConfig configures name-variant clustering.
type ClusterConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// AggregateConfig configures per-agency report assembly.
type AggregateConfig struct {
	MaxTestimonials int `yaml:"max_testimonials" mapstructure:"max_testimonials"`
}

// IngestConfig configures review dump filtering.
type IngestConfig struct {
	Filter       bool `yaml:"filter" mapstructure:"filter"`
	MinLength    int  `yaml:"min_length" mapstructure:"min_length"`
	MaxReviews   int  `yaml:"max_reviews" mapstructure:"max_reviews"`
	MaxMonthsOld int  `yaml:"max_months_old" mapstructure:"max_months_old"`
	StaleLimit   int  `yaml:"stale_limit" mapstructure:"stale_limit"`
}

// BatchConfig configures concurrent agency processing.
type BatchConfig struct {
	MaxConcurrentAgencies int `yaml:"max_concurrent_agencies" mapstructure:"max_concurrent_agencies"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig configures report output files. Empty paths are skipped.
type ExportConfig struct {
	JSONPath  string `yaml:"json_path" mapstructure:"json_path"`
	HTMLPath  string `yaml:"html_path" mapstructure:"html_path"`
	XLSXPath  string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
	TopAgents int    `yaml:"top_agents" mapstructure:"top_agents"`
}

// ServerConfig configures the report API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// AnalyzeRate caps POST /analyze requests per second; 0 disables.
	AnalyzeRate  float64 `yaml:"analyze_rate" mapstructure:"analyze_rate"`
	AnalyzeBurst int     `yaml:"analyze_burst" mapstructure:"analyze_burst"`
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
	v.SetEnvPrefix("AGENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("extract.ner_enabled", true)
	v.SetDefault("extract.ner_max_chars", 2000)
	v.SetDefault("extract.lexicon_path", "")
	v.SetDefault("cluster.similarity_threshold", 85.0)
	v.SetDefault("aggregate.max_testimonials", 5)
	v.SetDefault("ingest.filter", false)
	v.SetDefault("ingest.min_length", 30)
	v.SetDefault("ingest.max_reviews", 200)
	v.SetDefault("ingest.max_months_old", 12)
	v.SetDefault("ingest.stale_limit", 5)
	v.SetDefault("batch.max_concurrent_agencies", 3)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "agent-miner.db")
	v.SetDefault("export.json_path", "agentes_inmobiliarios.json")
	v.SetDefault("export.html_path", "agentes_inmobiliarios.html")
	v.SetDefault("export.xlsx_path", "agentes_inmobiliarios.xlsx")
	v.SetDefault("export.top_agents", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.analyze_rate", 0.0)
	v.SetDefault("server.analyze_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that the fields required by the given command mode are
// present and that numeric bounds hold. Modes: "analyze", "serve", "reports".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
		if c.Store.Driver != "" && c.Store.Driver != "none" && c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required when store.driver is set")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.AnalyzeRate < 0 {
			errs = append(errs, "server.analyze_rate must be >= 0")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "reports":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres", "none", "":
	default:
		errs = append(errs, "store.driver must be one of sqlite, postgres, none")
	}
	if c.Batch.MaxConcurrentAgencies < 1 || c.Batch.MaxConcurrentAgencies > 50 {
		errs = append(errs, "batch.max_concurrent_agencies must be between 1 and 50")
	}
	if c.Cluster.SimilarityThreshold < 0 || c.Cluster.SimilarityThreshold > 100 {
		errs = append(errs, "cluster.similarity_threshold must be between 0 and 100")
	}
	if c.Extract.NERMaxChars < 0 {
		errs = append(errs, "extract.ner_max_chars must be >= 0")
	}
	if c.Aggregate.MaxTestimonials < 0 {
		errs = append(errs, "aggregate.max_testimonials must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
