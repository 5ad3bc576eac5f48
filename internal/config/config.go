package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	S3          S3Config          `mapstructure:"s3"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Calendar    CalendarConfig    `mapstructure:"calendar"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig holds the secret shared with the identity provider that issues
// access tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// PersistenceConfig bounds every write against the document store.
type PersistenceConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ChipLimitsConfig struct {
	Day   int `mapstructure:"day"`
	Week  int `mapstructure:"week"`
	Month int `mapstructure:"month"`
}

type CalendarConfig struct {
	WeekStart string           `mapstructure:"week_start"`
	Timezone  string           `mapstructure:"timezone"` // IANA name; days are cut in this zone
	MaxChips  ChipLimitsConfig `mapstructure:"max_chips"`
}

// Location resolves Timezone. "Local" and empty mean the host zone.
func (c CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

var validWeekStarts = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.Persistence.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("persistence.timeout must be positive, got %s", c.Persistence.Timeout))
	}
	if !validWeekStarts[strings.ToLower(c.Calendar.WeekStart)] {
		errs = append(errs, fmt.Errorf("calendar.week_start %q is not a weekday", c.Calendar.WeekStart))
	}
	if _, err := c.Calendar.Location(); err != nil {
		errs = append(errs, fmt.Errorf("calendar.timezone: %w", err))
	}
	if c.Calendar.MaxChips.Day < 1 || c.Calendar.MaxChips.Week < 1 || c.Calendar.MaxChips.Month < 1 {
		errs = append(errs, errors.New("calendar.max_chips values must be at least 1"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, calendar.max_chips.day -> CALENDAR_MAX_CHIPS_DAY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "coachdesk")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("persistence.timeout", "10s")
	v.SetDefault("calendar.week_start", "sunday")
	v.SetDefault("calendar.timezone", "Local")
	v.SetDefault("calendar.max_chips.day", 8)
	v.SetDefault("calendar.max_chips.week", 4)
	v.SetDefault("calendar.max_chips.month", 2)
	v.SetDefault("log.mode", "development")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, config.Validate()
}
