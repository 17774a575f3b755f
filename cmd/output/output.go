// Package output provides functions to print messages with optional color formatting
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/ultrabuild/ultrabuild/domain"
)

const (
	Plain   = color.FgWhite
	Success = color.FgGreen
	Warning = color.FgYellow
	Error   = color.FgRed
)

var maybeColorize func(kind color.Attribute, tmpl string, a ...any) string

// InitColors sets up color functions based on environment
func InitColors(isColorDisabled bool) {
	if color.NoColor || isColorDisabled {
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return fmt.Sprintf(tmpl, a...)
		}
	} else {
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return color.New(kind).SprintfFunc()(tmpl, a...)
		}
	}
}

// PrintMessage formats a message with color (if enabled) and returns it
func PrintMessage(kind color.Attribute, tmpl string, a ...any) string {
	if maybeColorize == nil || kind == Plain {
		return fmt.Sprintf(tmpl+"\n", a...)
	}
	return fmt.Sprintln(maybeColorize(kind, tmpl, a...))
}

func PrintTable(header []string, data [][]string) (string, error) {
	buf := strings.Builder{}

	table := tablewriter.NewTable(
		&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines: tw.Lines{
					ShowHeaderLine: tw.Off,
				},
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{PerColumn: []tw.Align{tw.AlignLeft}},
			},
		}))

	if len(header) > 0 {
		table.Header(header)
	}

	if err := table.Bulk(data); err != nil {
		return "", fmt.Errorf("bulk adding data to table: %w", err)
	}

	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}

	return buf.String(), nil
}

// PrintFindings renders scanner findings, most severe category first
func PrintFindings(findings []domain.Finding) (string, error) {
	if len(findings) == 0 {
		return PrintMessage(Success, "No issues found."), nil
	}

	header := []string{"Category", "Severity", "Rule", "Match", "Message"}
	var data [][]string
	for _, f := range findings {
		data = append(data, []string{
			f.Category.String(),
			f.Severity.String(),
			f.RuleID,
			f.Match,
			f.Message,
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing findings table: %w", err)
	}
	return table + PrintMessage(Warning, "%d issue(s) found.", len(findings)), nil
}

// PrintTechStack renders the stack of one project type
func PrintTechStack(projectType domain.ProjectType, stack domain.TechStack) (string, error) {
	data := [][]string{
		{"Type", projectType.String()},
		{"Frontend", strings.Join(stack.Frontend, ", ")},
		{"Backend", strings.Join(stack.Backend, ", ")},
		{"Database", strings.Join(stack.Database, ", ")},
		{"Deployment", strings.Join(stack.Deployment, ", ")},
		{"Tools", strings.Join(stack.Tools, ", ")},
	}

	table, err := PrintTable([]string{}, data)
	if err != nil {
		return "", fmt.Errorf("printing tech stack table: %w", err)
	}
	return table, nil
}

// PrintCatalog renders a one-line summary per project type
func PrintCatalog(types []domain.ProjectType, lookup func(domain.ProjectType) domain.TechStack) (string, error) {
	header := []string{"Type", "Frontend", "Backend", "Database", "Deployment"}
	var data [][]string
	for _, t := range types {
		stack := lookup(t)
		data = append(data, []string{
			t.String(),
			strings.Join(stack.Frontend, ", "),
			strings.Join(stack.Backend, ", "),
			strings.Join(stack.Database, ", "),
			strings.Join(stack.Deployment, ", "),
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing catalog table: %w", err)
	}
	return table, nil
}

// NoColor is a flag that can be used to disable colored output in the CLI.
var NoColor = &noColorFlag{set: false}

type noColorFlag struct {
	set bool
}

func (f *noColorFlag) Set(value string) error {
	f.set = true
	return nil
}

func (f *noColorFlag) String() string {
	if f.set {
		return "true"
	}
	return "false"
}

func (f *noColorFlag) Type() string {
	return "bool"
}

// IsSet returns true if the --no-color flag was explicitly set
func (f *noColorFlag) IsSet() bool {
	return f.set
}

// IsBoolFlag tells pflag this is a boolean flag (no argument required)
func (f *noColorFlag) IsBoolFlag() bool {
	return true
}
