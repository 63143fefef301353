// Package config provides Viper-based configuration loading for the dungeon
// generator and simulation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GenerationConfig holds level-shape settings.
type GenerationConfig struct {
	Width       int `mapstructure:"width"`
	Height      int `mapstructure:"height"`
	MaxRooms    int `mapstructure:"max_rooms"`
	MinRoomSize int `mapstructure:"min_room_size"`
	MaxRoomSize int `mapstructure:"max_room_size"`
	// Seed drives the level RNG. Zero means draw a fresh seed per run.
	Seed int64 `mapstructure:"seed"`
	// ProfilesDir optionally names a directory of per-depth YAML profiles.
	ProfilesDir string `mapstructure:"profiles_dir"`
}

// CombatConfig holds melee resolution settings.
type CombatConfig struct {
	// Strict makes malformed melee intents fatal instead of warn-and-skip.
	Strict           bool          `mapstructure:"strict"`
	ParticleLifetime time.Duration `mapstructure:"particle_lifetime"`
}

// SimulationConfig holds settings for the headless turn runner.
type SimulationConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// MaxTurns stops the run after this many turns. Zero runs until stopped.
	MaxTurns int `mapstructure:"max_turns"`
	// Depth is the level depth to simulate.
	Depth int `mapstructure:"depth"`
	// BestiaryDir optionally names a directory of combatant archetype YAML.
	BestiaryDir string `mapstructure:"bestiary_dir"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP collector host:port. Empty defers to the
	// OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateGeneration(c.Generation),
		validateCombat(c.Combat),
		validateSimulation(c.Simulation),
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateTelemetry(c.Telemetry),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}

func validateGeneration(g GenerationConfig) error {
	var errs []string
	if g.MaxRooms < 0 {
		errs = append(errs, fmt.Sprintf("generation.max_rooms must be >= 0, got %d", g.MaxRooms))
	}
	if g.MinRoomSize < 2 {
		errs = append(errs, fmt.Sprintf("generation.min_room_size must be >= 2, got %d", g.MinRoomSize))
	}
	if g.MaxRoomSize <= g.MinRoomSize {
		errs = append(errs, "generation.max_room_size must exceed generation.min_room_size")
	}
	if g.Width < g.MaxRoomSize+3 {
		errs = append(errs, fmt.Sprintf("generation.width must be >= max_room_size+3, got %d", g.Width))
	}
	if g.Height < g.MaxRoomSize+3 {
		errs = append(errs, fmt.Sprintf("generation.height must be >= max_room_size+3, got %d", g.Height))
	}
	return joined(errs)
}

func validateCombat(c CombatConfig) error {
	if c.ParticleLifetime <= 0 {
		return fmt.Errorf("combat.particle_lifetime must be positive, got %s", c.ParticleLifetime)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval < 0 {
		errs = append(errs, "simulation.tick_interval must not be negative")
	}
	if s.MaxTurns < 0 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 0, got %d", s.MaxTurns))
	}
	if s.Depth < 1 {
		errs = append(errs, fmt.Sprintf("simulation.depth must be >= 1, got %d", s.Depth))
	}
	return joined(errs)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return joined(errs)
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) error {
	if t.Enabled && t.ServiceName == "" {
		return fmt.Errorf("telemetry.service_name must not be empty when telemetry is enabled")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and DUNGEON_ environment
// overrides installed but no config file read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generation.width", 80)
	v.SetDefault("generation.height", 40)
	v.SetDefault("generation.max_rooms", 30)
	v.SetDefault("generation.min_room_size", 6)
	v.SetDefault("generation.max_room_size", 10)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.profiles_dir", "")

	v.SetDefault("combat.strict", false)
	v.SetDefault("combat.particle_lifetime", "200ms")

	v.SetDefault("simulation.tick_interval", "100ms")
	v.SetDefault("simulation.max_turns", 0)
	v.SetDefault("simulation.depth", 1)
	v.SetDefault("simulation.bestiary_dir", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dungeon")
	v.SetDefault("database.password", "dungeon")
	v.SetDefault("database.name", "dungeon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.service_name", "dungeon")
}
