// Package config loads bridge configuration from YAML, .env files and
// BRIDGE_* environment variables.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/transfer"
)

// EnvPrefix prefixes every environment override. Keys use "_" for "." and
// "-": BRIDGE_LOG_LEVEL=debug, BRIDGE_TRANSFER_TIMEOUT=5s.
const EnvPrefix = "BRIDGE"

// Config is the root configuration.
type Config struct {
	// Name is the bridge module name, used as the guest import namespace
	Name    string `mapstructure:"name" validate:"required,excludesall=#/ "`
	Version string `mapstructure:"version" validate:"required"`
	// APIVersion is returned by the version export
	APIVersion int            `mapstructure:"api_version" validate:"gte=0"`
	Log        LogConfig      `mapstructure:"log"`
	Transfer   TransferConfig `mapstructure:"transfer"`
	Runtime    RuntimeConfig  `mapstructure:"runtime"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	// Format: console or json
	Format string `mapstructure:"format" validate:"oneof=console json"`
	// Outputs: stdout, stderr, or file paths
	Outputs     []string       `mapstructure:"outputs" validate:"min=1,dive,required"`
	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Enable     bool   `mapstructure:"enable"`
	Compress   bool   `mapstructure:"compress"`
}

// TransferConfig configures the transfer engine.
type TransferConfig struct {
	UserAgent string `mapstructure:"user_agent"`
	// Timeout bounds a whole transfer. Negative disables the limit.
	Timeout      time.Duration `mapstructure:"timeout"`
	// MaxRedirects bounds followed redirects; at least one must be allowed
	MaxRedirects int           `mapstructure:"max_redirects" validate:"gte=1,lte=1000"`
	MaxHandles   int           `mapstructure:"max_handles" validate:"gte=0"`
	// Disabled selects the unsupported engine
	Disabled bool `mapstructure:"disabled"`
	// HoldGlobal keeps engine global state alive for the process lifetime
	// instead of per call
	HoldGlobal bool `mapstructure:"hold_global"`
}

// RuntimeConfig configures the wasm runtime.
type RuntimeConfig struct {
	MemoryLimitPages uint32 `mapstructure:"memory_limit_pages" validate:"lte=65536"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Name:       bridge.DefaultName,
		Version:    bridge.DefaultVersion,
		APIVersion: bridge.DefaultAPIVersion,
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/bridge.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Transfer: TransferConfig{
			Timeout:      transfer.DefaultTimeout,
			MaxRedirects: transfer.DefaultMaxRedirects,
			UserAgent:    transfer.DefaultUserAgent,
		},
	}
}

// Load reads configuration from path, or from bridge.yaml in the working
// directory, ./configs or ~/.bridge when path is empty. BRIDGE_CONFIG
// overrides the search. A .env file in the working directory is loaded
// first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("name", cfg.Name)
	v.SetDefault("version", cfg.Version)
	v.SetDefault("api_version", cfg.APIVersion)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("transfer.timeout", cfg.Transfer.Timeout)
	v.SetDefault("transfer.max_redirects", cfg.Transfer.MaxRedirects)
	v.SetDefault("transfer.max_handles", cfg.Transfer.MaxHandles)
	v.SetDefault("transfer.user_agent", cfg.Transfer.UserAgent)
	v.SetDefault("transfer.disabled", cfg.Transfer.Disabled)
	v.SetDefault("transfer.hold_global", cfg.Transfer.HoldGlobal)
	v.SetDefault("runtime.memory_limit_pages", cfg.Runtime.MemoryLimitPages)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bridge")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bridge"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read config")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and normalizes the log level.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "validate config")
	}

	msgs := make([]string, 0, len(verrs))
	var paths []string
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		paths = append(paths, field)
		msgs = append(msgs, describe(field, fe))
	}
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(paths...).
		Detail("%s", strings.Join(msgs, "; ")).
		Build()
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of [" + fe.Param() + "]"
	case "min":
		return field + " must have at least " + fe.Param() + " entries"
	case "gte":
		return field + " must be >= " + fe.Param()
	case "lte":
		return field + " must be <= " + fe.Param()
	case "excludesall":
		return field + " must not contain any of " + strings.TrimSpace(fe.Param()) + " or spaces"
	default:
		return field + " failed " + fe.Tag()
	}
}

// TransferOptions converts the transfer section for transfer.Probe.
func (c *Config) TransferOptions() transfer.Options {
	return transfer.Options{
		Disabled: c.Transfer.Disabled,
		HTTP: transfer.HTTPOptions{
			UserAgent:    c.Transfer.UserAgent,
			Timeout:      c.Transfer.Timeout,
			MaxRedirects: c.Transfer.MaxRedirects,
			MaxHandles:   c.Transfer.MaxHandles,
		},
	}
}

// BridgeOptions converts the identity fields for bridge.New.
func (c *Config) BridgeOptions() []bridge.Option {
	return []bridge.Option{
		bridge.WithName(c.Name),
		bridge.WithVersion(c.Version),
		bridge.WithAPIVersion(c.APIVersion),
	}
}
