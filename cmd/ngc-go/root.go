package main

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ngc-template/packages/compiler/src/config"
)

var (
	configFiles []string
	level       string
)

var rootCmd = &cobra.Command{
	Use:           "ngc",
	Short:         "Angular template compiler tools",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command. It is called once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

// parseLevel accepts the slog level names plus "trace".
func parseLevel(name string) (slog.Level, error) {
	var ll slog.Level
	if strings.EqualFold(name, "trace") {
		return slog.Level(-8), nil
	}
	if err := ll.UnmarshalText([]byte(name)); err != nil {
		return 0, err
	}
	return ll, nil
}

// initConfig installs the JSON logger and reads the config files and
// NGC_ environment variables into viper.
func initConfig() {
	ll, err := parseLevel(level)
	if err != nil {
		panic("invalid log level: " + level)
	}
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: ll}))
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("ngc")
	}
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		l.Info("using config file", "config", viper.ConfigFileUsed())
	} else {
		l.Debug("unable to use config file", "error", err, "config", viper.ConfigFileUsed())
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			configBytes, err := os.ReadFile(file)
			if err != nil {
				l.Warn("failed to read config file", "error", err, "file", file)
				continue
			}
			if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
				l.Warn("failed to merge config file", "error", err, "file", file)
			} else {
				l.Info("merged config file", "file", file)
			}
		}
	}
}

// loadSettings resolves the settings the commands run with.
func loadSettings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}
