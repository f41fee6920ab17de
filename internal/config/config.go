package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultInputPath        = "data/sales_data.txt"
	DefaultEncodingFallback = "windows-1252"
	DefaultCurrency         = "₹"
	DefaultOutputDir        = "output"
	DefaultReportFile       = "sales_report.txt"
	DefaultEnrichedFile     = "enriched_sales_data.txt"
	DefaultCatalogURL       = "https://dummyjson.com/products?limit=100"
	DefaultCatalogTimeout   = 5 * time.Second
	DefaultDatabasePath     = "~/.local/share/salesflow/salesflow.db"
)

// Config is the complete application configuration.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Report   ReportConfig   `mapstructure:"report"`
	Output   OutputConfig   `mapstructure:"output"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// InputConfig controls how the sales log is read.
type InputConfig struct {
	Path             string `mapstructure:"path" validate:"required"`
	EncodingFallback string `mapstructure:"encoding_fallback" validate:"required"`
}

// FilterConfig holds the optional region and amount criteria.
type FilterConfig struct {
	MinAmount *float64 `mapstructure:"min_amount" validate:"omitempty,gte=0"`
	MaxAmount *float64 `mapstructure:"max_amount" validate:"omitempty,gte=0"`
	Region    string   `mapstructure:"region"`
}

// ReportConfig tunes the analytics output.
type ReportConfig struct {
	Currency     string `mapstructure:"currency"`
	TopN         int    `mapstructure:"top_n" validate:"gte=1"`
	LowThreshold int    `mapstructure:"low_threshold" validate:"gte=1"`
}

// OutputConfig names the files written by analyze.
type OutputConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	ReportFile   string `mapstructure:"report_file" validate:"required,filename"`
	EnrichedFile string `mapstructure:"enriched_file" validate:"required,filename"`
	XLSXFile     string `mapstructure:"xlsx_file" validate:"omitempty,filename"`
}

// CatalogConfig configures the product catalog client.
type CatalogConfig struct {
	URL           string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RetryAttempts int           `mapstructure:"retry_attempts" validate:"gte=1,lte=10"`
	Enabled       bool          `mapstructure:"enabled"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SheetsConfig holds optional Google Sheets export settings.
type SheetsConfig struct {
	ClientID           string `mapstructure:"client_id"`
	ClientSecret       string `mapstructure:"client_secret"`
	RefreshToken       string `mapstructure:"refresh_token"`
	ServiceAccountPath string `mapstructure:"service_account_path"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SpreadsheetName    string `mapstructure:"spreadsheet_name"`
	Enabled            bool   `mapstructure:"enabled"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=console json"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.path", DefaultInputPath)
	v.SetDefault("input.encoding_fallback", DefaultEncodingFallback)
	v.SetDefault("report.top_n", 5)
	v.SetDefault("report.low_threshold", 10)
	v.SetDefault("report.currency", DefaultCurrency)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.report_file", DefaultReportFile)
	v.SetDefault("output.enriched_file", DefaultEnrichedFile)
	v.SetDefault("output.xlsx_file", "")
	v.SetDefault("catalog.enabled", true)
	v.SetDefault("catalog.url", DefaultCatalogURL)
	v.SetDefault("catalog.timeout", DefaultCatalogTimeout)
	v.SetDefault("catalog.retry_attempts", 2)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("sheets.enabled", false)
	v.SetDefault("sheets.spreadsheet_name", "Sales Analytics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Filter bounds have no default; bind them so env vars are still seen.
	_ = v.BindEnv("filter.region")
	_ = v.BindEnv("filter.min_amount")
	_ = v.BindEnv("filter.max_amount")
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Input.Path = ExpandPath(cfg.Input.Path)
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Output.Dir = ExpandPath(cfg.Output.Dir)
	cfg.Sheets.ServiceAccountPath = ExpandPath(cfg.Sheets.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(filterRules, FilterConfig{})
	_ = v.RegisterValidation("filename", isValidFilename)
	return v
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// ValidationFilter converts the filter settings for validation.ValidateAndFilter.
func (c *Config) ValidationFilter() validation.Filter {
	return validation.Filter{
		Region:    c.Filter.Region,
		MinAmount: c.Filter.MinAmount,
		MaxAmount: c.Filter.MaxAmount,
	}
}

func filterRules(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(FilterConfig)
	if !ok {
		return
	}
	if f.MinAmount != nil && f.MaxAmount != nil && *f.MaxAmount < *f.MinAmount {
		sl.ReportError(f.MaxAmount, "MaxAmount", "max_amount", "gtefield", "MinAmount")
	}
}

func isValidFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
