package cmd

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove installed hooks and rules from the current project",
	Long: "Delete the Graphiti hooks, rules and shared library from both the current and " +
		"the legacy layout, and remove the hook registrations recorded by the last install " +
		"from .claude/settings.json. Other hooks are left untouched.",
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.installer.Uninstall()
	return err
}
