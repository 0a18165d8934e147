// Package config loads the fixture generator configuration from an optional
// file and JWTFIXTURES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JWTFIXTURES_OUTPUT_DIR
const EnvPrefix = "JWTFIXTURES"

var (
	// ErrFileNotFound is returned when an explicit config file does not exist
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidation is returned when the loaded configuration is invalid
	ErrValidation = errors.New("invalid configuration")
)

type (
	// Output controls where fixtures are written
	Output struct {
		Dir    string `mapstructure:"dir" validate:"required"`
		JWKS   bool   `mapstructure:"jwks"`
		KeyIDs bool   `mapstructure:"key_ids"`
	}

	// Log configures the command line logger
	Log struct {
		Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
		Format string `mapstructure:"format" validate:"oneof=console json"`
	}

	// Vault locates the Transit engine used by keys with a transit name
	Vault struct {
		Address string `mapstructure:"address" validate:"omitempty,url"`
		Token   string `mapstructure:"token"`
		Mount   string `mapstructure:"mount"`
	}

	// Key names one signing key. Exactly one of Secret, File and Transit is set.
	Key struct {
		Name    string `mapstructure:"name" validate:"required"`
		Secret  string `mapstructure:"secret"`
		File    string `mapstructure:"file"`
		Transit string `mapstructure:"transit"`
	}

	// Config is the fixture generator configuration
	Config struct {
		Output      Output `mapstructure:"output"`
		Concurrency int    `mapstructure:"concurrency" validate:"min=1,max=64"`
		Log         Log    `mapstructure:"log"`
		Vault       Vault  `mapstructure:"vault"`
		Keys        []Key  `mapstructure:"keys" validate:"unique=Name,dive"`
	}
)

// Defaults returns the default settings. The "secret" key matches the HMAC
// fixtures of the default catalog.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"output.dir":     "fixtures",
		"output.jwks":    false,
		"output.key_ids": false,
		"concurrency":    4,
		"log.level":      "info",
		"log.format":     "console",
		"vault.address":  "",
		"vault.token":    "",
		"vault.mount":    "transit",
		"keys": []map[string]interface{}{
			{"name": "secret", "secret": "secret"},
		},
	}
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply. The file is read from fs.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		key := sl.Current().Interface().(Key)
		sources := 0
		for _, s := range []string{key.Secret, key.File, key.Transit} {
			if s != "" {
				sources++
			}
		}
		if sources != 1 {
			sl.ReportError(key.Name, "Name", "name", "one_source", "")
		}
	}, Key{})
	return v
}

// Validate checks cfg against its struct tags and key source rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		msgs := make([]string, 0, len(validateErrs))
		for _, fe := range validateErrs {
			if fe.Tag() == "one_source" {
				msgs = append(msgs, fmt.Sprintf("key %q needs exactly one of secret, file, transit", fe.Value()))
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	for _, key := range cfg.Keys {
		if key.Transit != "" && cfg.Vault.Address == "" {
			return fmt.Errorf("%w: key %q uses transit but vault.address is empty", ErrValidation, key.Name)
		}
	}
	return nil
}
