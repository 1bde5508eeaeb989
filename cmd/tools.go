package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/tools"
	"github.com/Gil-1/crewai-gamedevs/internal/version"
)

var toolsFormat string

// toolDef is the plain JSON rendering of a tool.
type toolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"input_schema"`
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the agent tool definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		all := tools.Default(a.store).All()

		var payload any
		switch toolsFormat {
		case "json":
			defs := make([]toolDef, len(all))
			for i, t := range all {
				defs[i] = toolDef{Name: t.Name(), Description: t.Description(), InputSchema: t.InputSchema()}
			}
			payload = defs
		case "anthropic":
			payload = tools.AnthropicTools(all)
		default:
			return fmt.Errorf("unknown format: %q (valid options: json, anthropic)", toolsFormat)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var mcpTools string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the agent tools over MCP (stdio)",
	Long: `Serve the document tools as an MCP server on stdin/stdout. Agent CLIs start
this command themselves; --tools restricts the server to a comma-separated
list of tool names.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		var names []string
		for _, n := range strings.Split(mcpTools, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		registry, err := tools.Default(a.store, a.cfg.Paths.Output).Subset(names)
		if err != nil {
			return err
		}

		s, err := tools.NewMCPServer(registry, version.Version, a.log)
		if err != nil {
			return err
		}
		a.log.WithField("tools", registry.Names()).Debug("serving MCP over stdio")
		return tools.ServeStdio(s)
	},
}

func init() {
	toolsCmd.Flags().StringVar(&toolsFormat, "format", "json", "Output format (json, anthropic)")
	mcpCmd.Flags().StringVar(&mcpTools, "tools", "", "Comma-separated tools to serve (default: all)")
	rootCmd.AddCommand(toolsCmd, mcpCmd)
}
