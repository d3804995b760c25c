package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jwalitptl/hms/internal/model"
)

const envPrefix = "HMS"

type Config struct {
	DataFile         string        `mapstructure:"data_file"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	Limits           model.Limits  `mapstructure:"limits"`
	Log              LogConfig     `mapstructure:"log"`
	Console          ConsoleConfig `mapstructure:"console"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives log output instead of stderr when set.
	File string `mapstructure:"file"`
}

type ConsoleConfig struct {
	// Pause waits for Enter after each menu action.
	Pause bool `mapstructure:"pause"`
}

// LoadConfig reads configuration from defaults, an optional config file and
// HMS_* environment variables, in increasing order of precedence. With an
// empty path the file is looked up as config.yaml in . and ./config, and a
// missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	limits := model.DefaultLimits()
	v.SetDefault("data_file", "hospital_data.bin")
	v.SetDefault("autosave_interval", time.Duration(0))
	v.SetDefault("limits.patients", limits.Patients)
	v.SetDefault("limits.diseases", limits.Diseases)
	v.SetDefault("limits.doctors", limits.Doctors)
	v.SetDefault("limits.appointments", limits.Appointments)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("console.pause", true)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("autosave_interval must not be negative")
	}
	for name, n := range map[string]int{
		"patients":     c.Limits.Patients,
		"diseases":     c.Limits.Diseases,
		"doctors":      c.Limits.Doctors,
		"appointments": c.Limits.Appointments,
	} {
		if n < 1 {
			return fmt.Errorf("limits.%s must be at least 1", name)
		}
	}
	return nil
}
