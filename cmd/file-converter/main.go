// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the file-converter CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/file-converter/internal/logging"
	"github.com/pdiddy/file-converter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultUserAgent       = "file-converter/0.1"
	defaultDownloadTimeout = 60 * time.Second
)

// logger is built from configuration before any subcommand runs.
var logger = logging.NewNop()

// rootCmd is the base command for the file-converter CLI.
var rootCmd = &cobra.Command{
	Use:   "file-converter",
	Short: "Upload an image and convert it with the remote conversion service",
	Long: `file-converter sends one image to the conversion service and retrieves
the converted result. A conversion is two calls: upload (the file is sent as
base64 together with a per-run session token) and convert (the returned
conversion id is converted to the chosen target format).

The service base URL comes from api_base_url in file-converter.yaml or the
FILE_CONVERTER_API_BASE_URL environment variable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(loadConfig().Log, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./file-converter.yaml or ~/.config/file-converter/config.yaml)")
	rootCmd.PersistentFlags().String("api-base-url", "", "conversion service base URL")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	viper.BindPFlag("api_base_url", rootCmd.PersistentFlags().Lookup("api-base-url"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	home, homeErr := os.UserHomeDir()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("file-converter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if homeErr == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "file-converter"))
		}
	}

	viper.SetDefault("user_agent", defaultUserAgent)
	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("download_timeout", defaultDownloadTimeout)
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_results", 20)
	if homeErr == nil {
		viper.SetDefault("history_db", filepath.Join(home, ".local", "share", "file-converter", "history.db"))
	}

	viper.SetEnvPrefix("FILE_CONVERTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from viper.
func loadConfig() types.ClientConfig {
	userAgent := viper.GetString("user_agent")
	return types.ClientConfig{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("timeout"),
				UserAgent: userAgent,
			},
			BaseURL: viper.GetString("api_base_url"),
		},
		Download: types.DownloadConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("download_timeout"),
				UserAgent: userAgent,
			},
			OutputDir: viper.GetString("output_dir"),
		},
		History: types.HistoryConfig{
			Path:       viper.GetString("history_db"),
			MaxResults: viper.GetInt("max_results"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log_level"),
			Format: types.LogFormat(viper.GetString("log_format")),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
