// Package config provides Viper-based configuration loading for the battle
// simulator and its tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CARDBATTLE_BATTLE_SEED.
const EnvPrefix = "CARDBATTLE"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on save-flag persistence. When false the other fields
	// are not validated.
	Enabled         bool          `mapstructure:"enabled"`
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
// Postcondition: Returns a valid PostgreSQL DSN string.
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

// BattleConfig holds the simulated battle settings.
type BattleConfig struct {
	// Seed drives every random draw. 0 draws a fresh seed per battle.
	Seed uint64 `mapstructure:"seed"`
	// Enemy is the enemy kind to fight.
	Enemy string `mapstructure:"enemy"`
	// Difficulty is one of easy, normal, hard, nightmare.
	Difficulty   string        `mapstructure:"difficulty"`
	PlayerHP     int           `mapstructure:"player_hp"`
	HandSize     int           `mapstructure:"hand_size"`
	PlayerStrike int           `mapstructure:"player_strike"`
	// Pledge is added as a pledge every player turn; 0 pledges nothing.
	Pledge       int           `mapstructure:"pledge"`
	// Battles is how many battles the simulator runs concurrently.
	Battles      int           `mapstructure:"battles"`
	MaxTurns     int           `mapstructure:"max_turns"`
	StaggerDelay time.Duration `mapstructure:"stagger_delay"`
	// Profile keys the persisted save flags.
	Profile string `mapstructure:"profile"`
}

// ContentConfig locates data-driven content. Empty directories are skipped.
type ContentConfig struct {
	PassivesDir string `mapstructure:"passives_dir"`
	AttacksDir  string `mapstructure:"attacks_dir"`
	ScriptsDir  string `mapstructure:"scripts_dir"`
	EnemiesDir  string `mapstructure:"enemies_dir"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps opcodes per hook call; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateBattle(c.Battle),
		validateScripting(c.Scripting),
		validateDatabase(c.Database),
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

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.Enemy == "" {
		errs = append(errs, "battle.enemy must not be empty")
	}
	validDifficulty := map[string]bool{"easy": true, "normal": true, "hard": true, "nightmare": true}
	if !validDifficulty[strings.ToLower(b.Difficulty)] {
		errs = append(errs, fmt.Sprintf("battle.difficulty must be one of [easy, normal, hard, nightmare], got %q", b.Difficulty))
	}
	if b.PlayerHP < 1 {
		errs = append(errs, fmt.Sprintf("battle.player_hp must be >= 1, got %d", b.PlayerHP))
	}
	if b.HandSize < 1 {
		errs = append(errs, fmt.Sprintf("battle.hand_size must be >= 1, got %d", b.HandSize))
	}
	if b.PlayerStrike < 0 {
		errs = append(errs, fmt.Sprintf("battle.player_strike must be >= 0, got %d", b.PlayerStrike))
	}
	if b.Pledge < 0 {
		errs = append(errs, fmt.Sprintf("battle.pledge must be >= 0, got %d", b.Pledge))
	}
	if b.Battles < 1 {
		errs = append(errs, fmt.Sprintf("battle.battles must be >= 1, got %d", b.Battles))
	}
	if b.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_turns must be >= 1, got %d", b.MaxTurns))
	}
	if b.StaggerDelay < 0 {
		errs = append(errs, "battle.stagger_delay must not be negative")
	}
	if b.Profile == "" {
		errs = append(errs, "battle.profile must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
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
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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

// NewViper returns a Viper instance with defaults and CARDBATTLE_ environment
// overrides applied but no config file read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
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
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.enemy", "skeleton")
	v.SetDefault("battle.difficulty", "normal")
	v.SetDefault("battle.player_hp", 40)
	v.SetDefault("battle.hand_size", 5)
	v.SetDefault("battle.player_strike", 6)
	v.SetDefault("battle.pledge", 0)
	v.SetDefault("battle.battles", 1)
	v.SetDefault("battle.max_turns", 50)
	v.SetDefault("battle.stagger_delay", "250ms")
	v.SetDefault("battle.profile", "default")

	v.SetDefault("content.passives_dir", "")
	v.SetDefault("content.attacks_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.enemies_dir", "")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "cardbattle")
	v.SetDefault("database.password", "cardbattle")
	v.SetDefault("database.name", "cardbattle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
