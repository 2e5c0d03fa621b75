package cmd

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install hooks and rules into the current project",
	Long: "Copy the Graphiti hooks and rules into .claude/, migrate files left by older " +
		"versions, install the shared library from claude-hooks-core when available, and " +
		"register the hooks in .claude/settings.json.\n\n" +
		"Running install again is safe: previously registered hooks are replaced, never duplicated.",
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.installer.Install()
	return err
}
