package cli

import (
	"os"

	"github.com/shinyvision/phpscan/internal/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "phpscan",
	Short:        "phpscan - token level PHP analysis as a language server or report",
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		verbosity := 1
		if verbose {
			verbosity = 2
		}
		commonlog.Configure(verbosity, nil)
	},
	// no subcommand: behave like serve, which is how editors launch us
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file (default: ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
}

// loadConfig resolves the config of a command run from the working directory.
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg.WorkspaceRoot = wd
	if cfgFile != "" {
		return cfg, cfg.Load(cfgFile)
	}
	return cfg, cfg.LoadWorkspace()
}
