package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigSearchHorizon    = "search-horizon"
	ConfigCutoffDepth      = "cutoff-depth"
	ConfigMaxTurns         = "max-turns"
	ConfigPlayer1          = "player1"
	ConfigPlayer2          = "player2"
	ConfigFlying           = "flying"
	ConfigHumanMaxAttempts = "human-max-attempts"
	ConfigAutoplayThreads  = "autoplay-threads"
	ConfigAutoplayGames    = "autoplay-games"
	ConfigSearchLogPath    = "search-log-path"
	ConfigCPUProfile       = "cpu-profile"
)

const (
	DefaultSearchHorizon = 5 * time.Second
	DefaultCutoffDepth   = 4
	DefaultMaxTurns      = 200
)

// Config is a viper instance with the morris defaults registered. Values
// come, in increasing precedence, from the defaults, a morris.yaml config
// file, MORRIS_* environment variables and command-line flags.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchHorizon, DefaultSearchHorizon)
	v.SetDefault(ConfigCutoffDepth, DefaultCutoffDepth)
	v.SetDefault(ConfigMaxTurns, DefaultMaxTurns)
	v.SetDefault(ConfigPlayer1, "human")
	v.SetDefault(ConfigPlayer2, "random")
	v.SetDefault(ConfigFlying, false)
	v.SetDefault(ConfigHumanMaxAttempts, 3)
	v.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigSearchLogPath, "")
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config with only the defaults set. It does not
// look at the environment or any file.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("morris", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Duration(ConfigSearchHorizon, DefaultSearchHorizon, "wall-clock budget for each computer decision")
	fs.Int(ConfigCutoffDepth, DefaultCutoffDepth, "depth limit for the cutoff searches (-1 for the default)")
	fs.Int(ConfigMaxTurns, DefaultMaxTurns, "plies after which a game is declared drawn")
	fs.String(ConfigPlayer1, "human", "strategy for X")
	fs.String(ConfigPlayer2, "random", "strategy for O")
	fs.Bool(ConfigFlying, false, "let a player with three pieces jump")
	fs.Int(ConfigHumanMaxAttempts, 3, "invalid human entries allowed before the player gives up with an error (0 = unlimited)")
	fs.Int(ConfigAutoplayThreads, runtime.NumCPU(), "worker goroutines for autoplay")
	fs.Int(ConfigAutoplayGames, 100, "number of games for autoplay")
	fs.String(ConfigSearchLogPath, "", "file to write per-decision search logs to")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	return fs
}

// Load reads flags from args, the environment and an optional config file.
// Arguments that are not flags are kept for the caller in Args().
func (c *Config) Load(args []string) error {
	v := viper.New()
	setDefaults(v)

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	v.SetEnvPrefix("morris")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("morris")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".morris"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	v.Set("args", fs.Args())
	c.Viper = v
	return nil
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
