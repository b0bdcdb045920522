// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/dataquality-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Mapping MappingConfig `yaml:"mapping" mapstructure:"mapping"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// MappingConfig names the customer master table and its columns, plus
// the result and reference tables.
type MappingConfig struct {
	Table   string `yaml:"table" mapstructure:"table"`
	ID      string `yaml:"id" mapstructure:"id"`
	Name    string `yaml:"name" mapstructure:"name"`
	Address string `yaml:"address" mapstructure:"address"`
	City    string `yaml:"city" mapstructure:"city"`
	Region  string `yaml:"region" mapstructure:"region"`
	Country string `yaml:"country" mapstructure:"country"`
	Postal  string `yaml:"postal" mapstructure:"postal"`
	DUNS    string `yaml:"duns" mapstructure:"duns"`

	ResultTable    string `yaml:"result_table" mapstructure:"result_table"`
	ReferenceTable string `yaml:"reference_table" mapstructure:"reference_table"`
}

// InputConfig configures the spreadsheet input source.
type InputConfig struct {
	ExcelPath string        `yaml:"excel_path" mapstructure:"excel_path"`
	Headers   HeadersConfig `yaml:"headers" mapstructure:"headers"`
}

// HeadersConfig names the spreadsheet columns for each field.
type HeadersConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Address string `yaml:"address" mapstructure:"address"`
	City    string `yaml:"city" mapstructure:"city"`
	Postal  string `yaml:"postal" mapstructure:"postal"`
	Country string `yaml:"country" mapstructure:"country"`
	Region  string `yaml:"region" mapstructure:"region"`
	DUNS    string `yaml:"duns" mapstructure:"duns"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Limit     int `yaml:"limit" mapstructure:"limit"`
	LogBuffer int `yaml:"log_buffer" mapstructure:"log_buffer"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
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
	v.SetEnvPrefix("DQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("mapping.table", "customer_master")
	v.SetDefault("mapping.id", "mdmid")
	v.SetDefault("mapping.name", "name1")
	v.SetDefault("mapping.address", "streetorhouse")
	v.SetDefault("mapping.city", "city")
	v.SetDefault("mapping.region", "region")
	v.SetDefault("mapping.country", "country")
	v.SetDefault("mapping.postal", "postalcode")
	v.SetDefault("mapping.duns", "dunsnumber")
	v.SetDefault("mapping.result_table", "data_quality_check")
	v.SetDefault("mapping.reference_table", "country_region_postal_validation")
	v.SetDefault("input.excel_path", "userfile.xlsx")
	v.SetDefault("input.headers.name", "Name1")
	v.SetDefault("input.headers.address", "Street/House")
	v.SetDefault("input.headers.city", "City")
	v.SetDefault("input.headers.postal", "Postal Code")
	v.SetDefault("input.headers.country", "Country")
	v.SetDefault("input.headers.region", "Region")
	v.SetDefault("input.headers.duns", "DUNS Number")
	v.SetDefault("batch.limit", 20)
	v.SetDefault("batch.log_buffer", 256)
	v.SetDefault("report.output_path", "ValidationReport.xlsx")
	v.SetDefault("server.port", 8080)
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

// Validate checks the settings every run needs regardless of mode.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required")
	}
	if c.Mapping.Table == "" || c.Mapping.ResultTable == "" || c.Mapping.ReferenceTable == "" {
		return eris.New("config: mapping table names cannot be empty")
	}
	if c.Batch.Limit <= 0 {
		return eris.New("config: batch.limit must be positive")
	}
	return nil
}

// StoreMapping converts the mapping section to the store's identifier
// set.
func (c *Config) StoreMapping() store.Mapping {
	return store.Mapping{
		Table:          c.Mapping.Table,
		ID:             c.Mapping.ID,
		Name:           c.Mapping.Name,
		Address:        c.Mapping.Address,
		City:           c.Mapping.City,
		Region:         c.Mapping.Region,
		Country:        c.Mapping.Country,
		Postal:         c.Mapping.Postal,
		DUNS:           c.Mapping.DUNS,
		ResultTable:    c.Mapping.ResultTable,
		ReferenceTable: c.Mapping.ReferenceTable,
	}
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
