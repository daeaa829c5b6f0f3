package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/timeclock-report/internal/overlay"
	"github.com/username/timeclock-report/pkg/duration"
)

// Config represents application configuration
type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Overlays   OverlaysConfig   `mapstructure:"overlays"`
	Workload   WorkloadConfig   `mapstructure:"workload"`
	Holidays   HolidaysConfig   `mapstructure:"holidays"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Log        LogConfig        `mapstructure:"log"`
}

// InputConfig represents the source exports location
type InputConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

// OutputConfig represents the generated workbook location
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	File string `mapstructure:"file"`
}

// OverlaysConfig names the overlay files, relative to Dir
type OverlaysConfig struct {
	Dir          string `mapstructure:"dir"`
	Vacation     string `mapstructure:"vacation"`
	SickLeave    string `mapstructure:"sick_leave"`
	PaidExcuse   string `mapstructure:"paid_excuse"`
	Birthday     string `mapstructure:"birthday"`
	Manual       string `mapstructure:"manual"`
	AshWednesday string `mapstructure:"ash_wednesday"` // optional explicit dates
}

// WorkloadConfig represents expected daily workloads (HH:MM)
type WorkloadConfig struct {
	FullDay string `mapstructure:"full_day"`
	HalfDay string `mapstructure:"half_day"`
}

// HolidaysConfig represents holiday calendar options
type HolidaysConfig struct {
	IncludeEasterSunday bool   `mapstructure:"include_easter_sunday"`
	AshWednesdayHalfDay bool   `mapstructure:"ash_wednesday_half_day"`
	ExtraFile           string `mapstructure:"extra_file"` // YYYY-MM-DD [name] per line
}

// ProcessingConfig represents batch options
type ProcessingConfig struct {
	Workers int `mapstructure:"workers"`
}

// WatchConfig represents watch mode options
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// LogConfig represents logging options
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", "PONTO_HTML")
	v.SetDefault("input.pattern", "*.html")
	v.SetDefault("output.dir", "PONTO_EXCEL")
	v.SetDefault("output.file", "PONTOS_CONSOLIDADOS.xlsx")
	v.SetDefault("overlays.dir", ".")
	v.SetDefault("overlays.vacation", "ferias.txt")
	v.SetDefault("overlays.sick_leave", "atestado.txt")
	v.SetDefault("overlays.paid_excuse", "abono.txt")
	v.SetDefault("overlays.birthday", "aniversario.txt")
	v.SetDefault("overlays.manual", "manual.txt")
	v.SetDefault("overlays.ash_wednesday", "")
	v.SetDefault("workload.full_day", "08:00")
	v.SetDefault("workload.half_day", "04:00")
	v.SetDefault("holidays.include_easter_sunday", false)
	v.SetDefault("holidays.ash_wednesday_half_day", true)
	v.SetDefault("holidays.extra_file", "")
	v.SetDefault("processing.workers", 1)
	v.SetDefault("watch.debounce", "2s")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config.yaml is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.timeclock-report")
		v.AddConfigPath("/etc/timeclock-report")
	}

	// Read environment variables, e.g. TIMECLOCK_INPUT_DIR
	v.SetEnvPrefix("TIMECLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if _, err := filepath.Match(c.Input.Pattern, ""); err != nil {
		return fmt.Errorf("input.pattern is invalid: %w", err)
	}
	if c.Output.File == "" {
		return fmt.Errorf("output.file is required")
	}

	full, err := duration.Parse(c.Workload.FullDay)
	if err != nil || full <= 0 {
		return fmt.Errorf("workload.full_day must be a positive HH:MM duration, got '%s'", c.Workload.FullDay)
	}
	half, err := duration.Parse(c.Workload.HalfDay)
	if err != nil || half <= 0 {
		return fmt.Errorf("workload.half_day must be a positive HH:MM duration, got '%s'", c.Workload.HalfDay)
	}
	if half > full {
		return fmt.Errorf("workload.half_day (%s) exceeds workload.full_day (%s)", c.Workload.HalfDay, c.Workload.FullDay)
	}

	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1")
	}

	return nil
}

// GetFullDay returns the full-day workload. Default: 8h
func (c *WorkloadConfig) GetFullDay() time.Duration {
	d, err := duration.Parse(c.FullDay)
	if err != nil || d <= 0 {
		return 8 * time.Hour
	}
	return d
}

// GetHalfDay returns the half-day workload. Default: 4h
func (c *WorkloadConfig) GetHalfDay() time.Duration {
	d, err := duration.Parse(c.HalfDay)
	if err != nil || d <= 0 {
		return 4 * time.Hour
	}
	return d
}

// GetDebounce returns the watch debounce duration. Default: 2s
func (c *WatchConfig) GetDebounce() time.Duration {
	if c.Debounce == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d < 0 {
		return 2 * time.Second
	}
	return d
}

// GetPattern returns the input file pattern. Default: *.html
func (c *InputConfig) GetPattern() string {
	if c.Pattern == "" {
		return "*.html"
	}
	return c.Pattern
}

// OutputPath returns the full path of the generated workbook
func (c *OutputConfig) OutputPath() string {
	if filepath.IsAbs(c.File) {
		return c.File
	}
	return filepath.Join(c.Dir, c.File)
}

// Files returns the overlay file set
func (c *OverlaysConfig) Files() overlay.Files {
	return overlay.Files{
		Dir:          c.Dir,
		Vacation:     c.Vacation,
		SickLeave:    c.SickLeave,
		PaidExcuse:   c.PaidExcuse,
		Birthday:     c.Birthday,
		AshWednesday: c.AshWednesday,
		Manual:       c.Manual,
	}
}

// ExpandEnvVars expands environment variables in path settings
func (c *Config) ExpandEnvVars() {
	c.Input.Dir = os.ExpandEnv(c.Input.Dir)
	c.Output.Dir = os.ExpandEnv(c.Output.Dir)
	c.Overlays.Dir = os.ExpandEnv(c.Overlays.Dir)
	c.Holidays.ExtraFile = os.ExpandEnv(c.Holidays.ExtraFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
