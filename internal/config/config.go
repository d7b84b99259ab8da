// Package config layers command-line flags, environment variables and an
// optional config file into the launcher's runtime configuration.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"modlauncher/internal/errors"
	"modlauncher/internal/model"
	"modlauncher/internal/utility"
)

// EnvPrefix prefixes every environment override, e.g. MODLAUNCHER_UTILITY.
const EnvPrefix = "MODLAUNCHER"

// DefaultGameDirs are tried in order when game_dir is not set.
var DefaultGameDirs = []string{"/usr/share/openra", "/usr/local/share/openra"}

// Config contains global runtime configuration.
type Config struct {
	Utility          string
	GameDir          string
	ListArgs         []string
	InfoArgs         []string
	SettingArgs      []string
	Concurrency      int
	RegistryCapacity int
	DeferUnresolved  bool
	LogLevel         string
	LogFile          string
	WebAddr          string
	Timeout          time.Duration
}

// flagBindings maps viper keys to flag names.
var flagBindings = map[string]string{
	"utility":           "utility",
	"game_dir":          "game-dir",
	"concurrency":       "concurrency",
	"registry_capacity": "registry-capacity",
	"defer_unresolved":  "defer-unresolved",
	"log_level":         "log-level",
	"log_file":          "log-file",
	"web_addr":          "web-addr",
	"timeout":           "timeout",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	q := utility.DefaultQueries()
	v.SetDefault("utility", "mono OpenRA.Utility.exe")
	v.SetDefault("game_dir", "")
	v.SetDefault("list_args", q.ListMods)
	v.SetDefault("info_args", q.ModInfo)
	v.SetDefault("setting_args", q.Setting)
	v.SetDefault("concurrency", 4)
	v.SetDefault("registry_capacity", 0)
	v.SetDefault("defer_unresolved", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("web_addr", "localhost:8080")
	v.SetDefault("timeout", 30*time.Second)
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Read configuration from this file (toml, yaml or json)")
	fs.String("utility", "mono OpenRA.Utility.exe", "Command line of the mod utility")
	fs.String("game-dir", "", "Game directory the utility runs in (default: first of "+strings.Join(DefaultGameDirs, ", ")+")")
	fs.Int("concurrency", 4, "Maximum number of concurrent metadata queries (0 = unlimited)")
	fs.Int("registry-capacity", 0, "Fixed mod registry size; 0 grows as needed")
	fs.Bool("defer-unresolved", true, "Hold back mods whose dependency has not been placed yet")
	fs.String("log-level", "warn", "Log level (debug|info|warn|error)")
	fs.String("log-file", "", "Write logs to this file")
	fs.String("web-addr", "localhost:8080", "Listen address for --web")
	fs.Duration("timeout", 30*time.Second, "Timeout of one discovery pass")
}

// BindFlags binds the flags registered by RegisterFlags and the environment to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return errors.WithStackTraceAndPrefix(err, "binding flag %s", name)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(model.ExpandTilde(path))
		if err := v.ReadInConfig(); err != nil {
			return errors.WithStackTraceAndPrefix(err, "reading config %s", path)
		}
	}
	return nil
}

// Load builds Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Utility:          v.GetString("utility"),
		GameDir:          v.GetString("game_dir"),
		ListArgs:         v.GetStringSlice("list_args"),
		InfoArgs:         v.GetStringSlice("info_args"),
		SettingArgs:      v.GetStringSlice("setting_args"),
		Concurrency:      v.GetInt("concurrency"),
		RegistryCapacity: v.GetInt("registry_capacity"),
		DeferUnresolved:  v.GetBool("defer_unresolved"),
		LogLevel:         v.GetString("log_level"),
		LogFile:          v.GetString("log_file"),
		WebAddr:          v.GetString("web_addr"),
		Timeout:          v.GetDuration("timeout"),
	}
	if cfg.GameDir == "" {
		cfg.GameDir = model.FirstExistingDir(DefaultGameDirs...)
	} else {
		cfg.GameDir = model.ExpandTilde(cfg.GameDir)
	}
	return cfg, cfg.Validate()
}

// Validate returns error if configuration is invalid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Utility) == "" {
		return errors.New("utility cannot be empty")
	}
	if c.Concurrency < 0 {
		return errors.Errorf("concurrency cannot be negative: %d", c.Concurrency)
	}
	if c.RegistryCapacity < 0 {
		return errors.Errorf("registry capacity cannot be negative: %d", c.RegistryCapacity)
	}
	if len(c.ListArgs) == 0 {
		return errors.New("list_args cannot be empty")
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout cannot be negative: %s", c.Timeout)
	}
	return nil
}

// Queries returns the utility argument templates.
func (c Config) Queries() utility.Queries {
	return utility.Queries{
		ListMods: c.ListArgs,
		ModInfo:  c.InfoArgs,
		Setting:  c.SettingArgs,
	}
}
