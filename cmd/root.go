package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbURL   string
	verbose bool
	logger  = slog.New(slog.DiscardHandler)
)

var RootCmd = &cobra.Command{
	Use:   "table-pump",
	Short: "Move tables between databases, CSV, JSON and workbooks",
	Long: `
 _____ _   ___ _    ___   ___ _   _ __  __ ___
|_   _/_\ | _ ) |  | __| | _ \ | | |  \/  | _ \
  | |/ _ \| _ \ |__| _|  |  _/ |_| | |\/| |  _/
  |_/_/ \_\___/____|___| |_|  \___/|_|  |_|_|

TABLE PUMP - copy, export, load and fill database tables
`,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./table-pump.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbURL, "url", "", "connection URL or connection name (overrides the active connection)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	_ = viper.BindPFlag("url", RootCmd.PersistentFlags().Lookup("url"))

	viper.SetDefault("settings.batch_size", 1000)
	viper.SetDefault("settings.formatted", true)
	viper.SetDefault("settings.default_count", 100)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// executable directory first, then the working directory
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("table-pump")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TABLE_PUMP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", slog.String("path", viper.ConfigFileUsed()))
	}
}
