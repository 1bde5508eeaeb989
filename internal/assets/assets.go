// Package assets embeds the default crew definitions and knowledge files
// written by "gamedevs init" and used when the project has none.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed files
var files embed.FS

// Default project-relative paths of the embedded files.
const (
	AgentsFile   = "config/agents.yaml"
	TasksFile    = "config/tasks.yaml"
	TemplateFile = "knowledge/game_design_document/template.mdx"
	GuideFile    = "knowledge/game_design_document/instructions.mdx"
)

// FS returns the embedded tree rooted so that paths match the project
// layout ("config/agents.yaml", "knowledge/...").
func FS() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	return sub
}

// Read returns an embedded file by project-relative path.
func Read(name string) ([]byte, error) {
	return fs.ReadFile(FS(), name)
}
