package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Gil-1/crewai-gamedevs/internal/version"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "gamedevs",
	Short: "Game design document crew for agent CLIs",
	Long: `gamedevs drafts a game design document with a crew of four agents
(pitch writer, gameplay designer, chief editor, technical architect).

Each task is handed to an agent CLI (claude or codex) together with the
document tools, which are served over MCP by "gamedevs mcp". The same tools
are available directly as the section, search, validate and outline commands.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gamedevs %s\n", version.String()))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./gamedevs.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("profile", "production", "Model profile (production, testing)")
	pf.String("agent", "claude", "Agent CLI to run tasks with (claude, codex); env GAMEDEVS_AGENT")

	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("profile", pf.Lookup("profile"))
	_ = v.BindPFlag("agent", pf.Lookup("agent"))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
