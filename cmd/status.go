package cmd

import (
	"github.com/leefowlercu/graphiti-claude-integration/internal/report"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is installed in the current project",
	Long: "Report which hooks and rules are present, whether the shared library and state " +
		"file exist, and how many hook registrations settings.json holds. Nothing is modified.",
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.installer.Status()
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return report.RenderStatusJSON(cmd.OutOrStdout(), r)
	}

	report.RenderStatus(cmd.OutOrStdout(), r, s.color)
	return nil
}
