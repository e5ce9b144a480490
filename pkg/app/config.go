package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

const configFlagName = "config"

var cfgFile string

// AddConfigFlag adds the --config flag and wires viper to read the file and
// environment variables prefixed with the upper-cased command name.
func AddConfigFlag(fs *pflag.FlagSet, name string) {
	fs.StringVarP(&cfgFile, configFlagName, "c", cfgFile, "Read configuration from specified `FILE`, "+
		"support JSON, TOML, YAML, HCL, or Java properties formats.")

	cobra.OnInitialize(func() {
		loadDotEnv()

		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(filepath.Join(home, "."+name))
			}
			viper.AddConfigPath(filepath.Join("/etc", name))
			viper.SetConfigName(name)
		}

		viper.SetEnvPrefix(envPrefix(name))
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Error: failed to read configuration file(%s): %v\n", cfgFile, err)
				os.Exit(1)
			}
		}
	})
}

// loadDotEnv populates the process environment from ./.env when present.
// Variables already set in the environment win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
}

// watchConfig calls fn every time the loaded configuration file changes.
func watchConfig(fn func()) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed", "file", e.Name, "op", e.Op.String())
		fn()
	})
	viper.WatchConfig()
}

// envPrefix converts "alarm-bridge" into "ALARM_BRIDGE".
func envPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
