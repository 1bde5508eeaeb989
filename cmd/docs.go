package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/knowledge"
	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
	"github.com/Gil-1/crewai-gamedevs/internal/tools"
)

// errStructure makes validate exit non-zero after printing its report.
var errStructure = errors.New("document structure does not match the template")

// runTool executes a registered tool with the given arguments and prints
// its text result.
func runTool(cmd *cobra.Command, name string, args map[string]string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	t, ok := tools.Default(a.store).Get(name)
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	out, err := t.Run(cmd.Context(), raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

var sectionCmd = &cobra.Command{
	Use:   "section [name...]",
	Short: "Print the template, or one of its sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, tools.TemplateReaderName, map[string]string{"section": strings.Join(args, " ")})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the design guide",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, tools.GuideSearchName, map[string]string{"query": strings.Join(args, " ")})
	},
}

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge [path]",
	Short: "List the knowledge directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runTool(cmd, tools.KnowledgeDirectoryName, map[string]string{"path": path})
	},
}

var (
	validateTemplate string
	validateJSON     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <document>",
	Short: "Check a document's sections against the template",
	Long: `Compare the level-2 sections of a markdown document with those of the GDD
template and report missing and extra sections. Exits non-zero when the
structure does not match.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		report, err := tools.ValidateFile(a.store, args[0], validateTemplate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if validateJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		} else {
			text := tools.FormatReport(report)
			if report.Passed {
				fmt.Fprintln(out, successStyle.Render(text))
			} else {
				fmt.Fprintln(out, errorStyle.Render(text))
			}
		}

		if !report.Passed {
			return errStructure
		}
		return nil
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline [file]",
	Short: "Print the heading tree of a document (the template by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		var text string
		if len(args) == 1 {
			text, err = knowledge.ReadText(args[0])
		} else {
			text, _, err = a.store.Template()
		}
		if err != nil {
			return err
		}

		nodes := mdx.Outline(mdx.Parse(text))
		if len(nodes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no headings"))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), mdx.FormatOutline(nodes))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateTemplate, "template", "", "Template to validate against (default: configured template)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(sectionCmd, searchCmd, knowledgeCmd, validateCmd, outlineCmd)
}
