package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment variables, e.g. PETSHOP_LOG_LEVEL.
const EnvPrefix = `PETSHOP`

// Config holds the settings of the petshop server. Sources by priority:
// flags, environment variables, the optional config file, defaults.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	DB              string        `mapstructure:"db"`
	Seed            bool          `mapstructure:"seed"`
	LogLevel        string        `mapstructure:"log-level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(`config`, ``, `path to a config file (yaml, json or toml)`)
	flags.String(`addr`, `:8080`, `HTTP listen address`)
	flags.String(`db`, `:memory:`, `path to the SQLite database`)
	flags.Bool(`seed`, false, `insert demo data after migrating`)
	flags.String(`log-level`, `info`, `log level (debug|info|warn|error)`)
	flags.Duration(`shutdown-timeout`, 10*time.Second, `graceful shutdown timeout`)
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return cfg, fmt.Errorf(`failed to bind flags: %w`, err)
	}

	if path := v.GetString(`config`); path != `` {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf(`failed to read config %q: %w`, path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf(`failed to unmarshal config: %w`, err)
	}
	return cfg, cfg.validate()
}

func (self Config) validate() error {
	if self.DB == `` {
		return errors.New(`db must not be empty`)
	}
	if self.Addr == `` {
		return errors.New(`addr must not be empty`)
	}
	if self.ShutdownTimeout <= 0 {
		return fmt.Errorf(`shutdown-timeout must be positive, got %v`, self.ShutdownTimeout)
	}
	if _, err := zapcore.ParseLevel(self.LogLevel); err != nil {
		return fmt.Errorf(`invalid log-level: %w`, err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
