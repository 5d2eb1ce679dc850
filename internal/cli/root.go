package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"arithmetic-quiz-service/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quiz-service",
		Short:        "Arithmetic practice quiz service with timed tests and a leaderboard",
		SilenceUsage: true,
	}

	f := cmd.PersistentFlags()
	f.String("port", "", "port to listen on (overrides server.port)")
	f.String("config", "config/config.yaml", "path to YAML config")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (text, json)")

	cmd.AddCommand(NewStartCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewGenerateCmd())
	return cmd
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
// PORT and CONFIG_PATH are honoured for container platforms; everything else
// uses the QUIZ_ prefix.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindPFlags(cmd.InheritedFlags())

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PORT", "QUIZ_PORT")
	_ = v.BindEnv("config", "CONFIG_PATH", "QUIZ_CONFIG")
	return v
}

// loadConfig reads the config file and lets flags and environment override it.
// A missing config file means defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viperForCmd(cmd)
	cfg, err := config.LoadOptional(v.GetString("config"))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if port := v.GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if level := v.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format := v.GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}
	setupLogging(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func setupLogging(levelName, format string) {
	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
