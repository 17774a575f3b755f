// Package root implements the command line interface for ULTRABUILD.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ultrabuild/ultrabuild/cmd/catalog"
	"github.com/ultrabuild/ultrabuild/cmd/output"
	"github.com/ultrabuild/ultrabuild/cmd/scan"
	"github.com/ultrabuild/ultrabuild/cmd/server"
	"github.com/ultrabuild/ultrabuild/cmd/version"
	"github.com/ultrabuild/ultrabuild/config"
	"github.com/ultrabuild/ultrabuild/logging"
)

func Execute() {
	if err := NewCmdRoot(config.GetDefaultDataDir()).Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCmdRoot(defaultDataDir string) *cobra.Command {
	var opts config.Options
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "ultrabuild",
		Short: "Autonomous project generation, deployment and code healing",
		Long: `ULTRABUILD generates projects from requirements, deploys them to Vercel, GitHub,
Docker or AWS, heals common code problems and sells templates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.New(opts)
			if err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			// CLI flags override config
			colorDisabled := !cfg.ColorEnabled
			if output.NoColor.IsSet() {
				colorDisabled = true
			}
			output.InitColors(colorDisabled)

			logLevel := cfg.LogLevel
			if logging.LogLevel.IsSet() {
				logLevel = logging.LogLevel.String()
				cfg.LogLevel = logLevel
			}
			logging.InitLogging(logLevel, cfg.LogFormat)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().
		StringVarP(&opts.DataDir, "data-dir", "d", defaultDataDir, "Data directory for the database, workspaces and .env file")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().VarP(logging.LogLevel, "log-level", "l", "Set log verbosity level")
	cmd.PersistentFlags().VarP(output.NoColor, "no-color", "c", "Disable colored terminal output")

	cmd.AddCommand(
		server.NewCmdServer(func() *config.Config { return cfg }),
		scan.NewCmdScan(),
		catalog.NewCmdCatalog(),
		version.NewCmdVersion(),
	)
	return cmd
}
