package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
)

const (
	ProgressBackendFile     = "file"
	ProgressBackendDatabase = "database"
)

type Config struct {
	Spreadsheet SpreadsheetConfig `mapstructure:"spreadsheet"`
	Columns     catalog.Columns   `mapstructure:"columns"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Progress    ProgressConfig    `mapstructure:"progress"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Server      ServerConfig      `mapstructure:"server"`
	Templates   TemplatesConfig   `mapstructure:"templates"`
	Outputs     OutputsConfig     `mapstructure:"outputs"`
}

type SpreadsheetConfig struct {
	URL               string `mapstructure:"url" validate:"omitempty,url"`
	Format            string `mapstructure:"format" validate:"oneof=xlsx csv"`
	Sheet             string `mapstructure:"sheet"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxAttempts       uint   `mapstructure:"max_attempts" validate:"gt=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

func (c SpreadsheetConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SpreadsheetConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

type CatalogConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

func (c CatalogConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type ProgressConfig struct {
	Backend   string `mapstructure:"backend" validate:"oneof=file database"`
	Directory string `mapstructure:"directory" validate:"required_if=Backend file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type TemplatesConfig struct {
	CourseGuideTemplate string `mapstructure:"course_guide_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	GuideDirectory string `mapstructure:"guide_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lessondeck")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// envBindings maps config keys to the environment variables that override them.
// The sheet link is usually shared out of band and the password stays out of files.
var envBindings = map[string]string{
	"spreadsheet.url":   "LESSONDECK_SPREADSHEET_URL",
	"database.password": "DB_PASSWORD",
}

func defaults() map[string]any {
	columns := catalog.DefaultColumns()
	return map[string]any{
		"spreadsheet.format":              "xlsx",
		"spreadsheet.timeout_seconds":     30,
		"spreadsheet.max_attempts":        3,
		"spreadsheet.retry_delay_seconds": 2,

		"columns.module":   columns.Module,
		"columns.title":    columns.Title,
		"columns.video":    columns.Video,
		"columns.document": columns.Document,
		"columns.youtube":  columns.YouTube,
		"columns.duration": columns.Duration,
		"columns.order":    columns.Order,
		"columns.level":    columns.Level,

		"catalog.cache_ttl_seconds": 3600,
		"progress.backend":          ProgressBackendFile,
		"progress.directory":        "progress",
		// blank falls back to the embedded guide template
		"templates.course_guide_template": "",
		"outputs.guide_directory":         filepath.Join("outputs", "guide"),

		"database.host":     "localhost",
		"database.port":     3306,
		"database.database": "local",
		"database.username": "user",

		"server.port":                 8080,
		"server.cors.allowed_origins": []string{"http://localhost:3000"},
	}
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if err := loader.validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (loader *ConfigLoader) validate(cfg Config) error {
	err := loader.validator.Struct(cfg)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Translate(loader.translator))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
}
