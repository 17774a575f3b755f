// Package scan implements the command that reports problem patterns in a source file.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ultrabuild/ultrabuild/cmd/output"
	"github.com/ultrabuild/ultrabuild/healer"
)

// NewCmdScan creates the scan command
func NewCmdScan() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a source file for problem patterns",
		Long: `Scan a JavaScript or TypeScript file for syntax, type, logic, security and
performance patterns. The language is derived from the file extension unless set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], language)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "L", "", "Source language (javascript or typescript)")
	return cmd
}

func runScan(cmd *cobra.Command, path, language string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if language == "" {
		language = languageFor(path)
	}

	findings := healer.NewScanner(healer.DefaultRules).Scan(string(code), language)

	out, err := output.PrintFindings(findings)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func languageFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript"
	default:
		return "javascript"
	}
}
