package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"skillswap/internal/client"
	"skillswap/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPI = "http://localhost:8080/api"

// session state shared by every command, set up in PersistentPreRunE
var (
	cfg  = viper.New()
	api  *client.Client
	auth *client.AuthContext
)

var rootCmd = &cobra.Command{
	Use:           "skillswap",
	Short:         "Find mentors, book sessions and chat from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		logger.InitConsole(cfg.GetBool("verbose"))

		store := client.NewFileTokenStore(cfg.GetString("credentials"))
		api = client.New(cfg.GetString("api"), store)
		auth = client.NewAuthContext(api)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api", defaultAPI, "API base URL")
	flags.String("credentials", "", "Path of the stored tokens (default ~/.config/skillswap/credentials.yaml)")
	flags.BoolP("verbose", "v", false, "Log requests to stderr")
	flags.String("config", "", "CLI config file (default ~/.config/skillswap/cli.yaml)")

	rootCmd.AddCommand(authCmds()...)
	rootCmd.AddCommand(categoryCmd, skillCmd, sessionCmd, chatCmd, reviewCmd)
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "skillswap")
	}
	return ".skillswap"
}

func loadConfig(cmd *cobra.Command) error {
	cfg.SetEnvPrefix("SKILLSWAP")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault("api", defaultAPI)
	cfg.SetDefault("credentials", filepath.Join(configDir(), "credentials.yaml"))

	flags := cmd.Root().PersistentFlags()
	for _, name := range []string{"api", "credentials", "verbose"} {
		if err := cfg.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}

	if file, _ := flags.GetString("config"); file != "" {
		cfg.SetConfigFile(file)
	} else {
		cfg.AddConfigPath(configDir())
		cfg.SetConfigName("cli")
		cfg.SetConfigType("yaml")
	}
	if err := cfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// requireLogin restores the stored session or fails with a hint.
func requireLogin(ctx context.Context) error {
	user, err := auth.Restore(ctx)
	if err != nil {
		return fmt.Errorf("session expired, run `skillswap login`: %w", err)
	}
	if user == nil {
		return fmt.Errorf("not logged in, run `skillswap login`")
	}
	return nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

// parseTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM". Empty input gives
// the zero time so the client reports the missing value.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use YYYY-MM-DD HH:MM", s)
}
