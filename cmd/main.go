package main

import (
	"os"

	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "hrportal",
	Short:         "HR portal: resume intake, job match scoring and HR review",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
}

// loadConfig reads the configuration and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := logx.Configure(cfg.App.LogJSON, logx.Level(cfg.App.LogLevel)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	defer logx.Sync()
	if err := rootCmd.Execute(); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}
}
