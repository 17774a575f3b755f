// Package catalog implements the command that lists the template catalog.
package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/cmd/output"
	"github.com/ultrabuild/ultrabuild/domain"
)

// NewCmdCatalog creates the catalog command
func NewCmdCatalog() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [type]",
		Short: "Show the technology stack for project types",
		Long:  `List every project type with its stack, or show the full stack of one type.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd, catalog.New(), args)
		},
	}
	return cmd
}

func runCatalog(cmd *cobra.Command, c *catalog.Catalog, args []string) error {
	var out string
	var err error

	if len(args) == 0 {
		out, err = output.PrintCatalog(c.Types(), c.Lookup)
	} else {
		projectType := domain.ProjectType(strings.ToLower(strings.TrimSpace(args[0])))
		if !c.Has(projectType) {
			return fmt.Errorf("unknown project type %q", args[0])
		}
		out, err = output.PrintTechStack(projectType, c.Lookup(projectType))
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
