package cmd

import (
	"fmt"
	"os"

	"github.com/leefowlercu/graphiti-claude-integration/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "graphiti-claude-integration",
	Short: "Install Graphiti memory hooks into a Claude Code project",
	Long: "\ngraphiti-claude-integration installs the Graphiti hook scripts and rules into " +
		"the .claude directory of the current project and registers the hooks in " +
		".claude/settings.json.\n\n" +
		"Files are installed under package-scoped directories so they can be removed " +
		"cleanly, and only the registrations recorded by the last install are ever " +
		"removed from settings.json.",
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: runInit,
	RunE:              runRoot,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to configuration file (default: ~/.agent-hooks/graphiti-claude-integration/config.yaml)")
	flags.String("dir", "", "Project directory to operate on (default: current directory)")
	flags.String("source", "", "Directory holding the packaged hooks/ and rules/ (default: next to the executable)")
	flags.String("core", "", "Location of claude-hooks-core (default: resolved from the source directory)")
	flags.String("log-level", config.DefaultConfig.Logging.Level, "Logging level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultConfig.Logging.Format, "Logging format (json, text)")
	flags.String("log-file", config.DefaultConfig.Logging.LogFile, "Write structured logs to this file")
	flags.String("color", config.DefaultConfig.Output.Color, "Colorize status output (auto, always, never)")

	// Bind flags to viper
	viper.BindPFlag("root_dir", flags.Lookup("dir"))
	viper.BindPFlag("source_dir", flags.Lookup("source"))
	viper.BindPFlag("core_dir", flags.Lookup("core"))
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	viper.BindPFlag("logging.log_file", flags.Lookup("log-file"))
	viper.BindPFlag("output.color", flags.Lookup("color"))

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Get custom config path if provided
	configPath, _ := cmd.Flags().GetString("config")

	err := config.InitConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration; %w", err)
	}

	return nil
}

// runRoot prints help for a bare invocation or an unrecognized command
func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
