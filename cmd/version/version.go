// Package version provides the version command for ULTRABUILD.
package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ultrabuild/ultrabuild/app"
)

// NewCmdVersion creates the version command
func NewCmdVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for ULTRABUILD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.Version)
			return err
		},
	}

	return cmd
}
