// Package knowledge reads the files behind the agent tools: the GDD
// template, the design guide and the knowledge directory. It rejects
// missing or non-text files before any text processing runs.
package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Gil-1/crewai-gamedevs/internal/assets"
)

// ErrNotFound is returned when no candidate path holds the file.
var ErrNotFound = errors.New("knowledge file not found")

// ErrNotText is returned for files that are not valid UTF-8 text.
var ErrNotText = errors.New("not a text file")

// ErrOutsideRoot is returned by Within for paths outside every root.
var ErrOutsideRoot = errors.New("path is outside the allowed directories")

// Store resolves and reads knowledge files.
type Store struct {
	// Root is the knowledge directory.
	Root string
	// TemplatePath and GuidePath are the configured file locations.
	TemplatePath string
	GuidePath    string
	// Embedded enables the built-in copies as a last resort.
	Embedded bool
}

// Template returns the GDD template text.
func (s *Store) Template() (string, string, error) {
	return s.read(s.TemplatePath, assets.TemplateFile)
}

// Guide returns the design guide text.
func (s *Store) Guide() (string, string, error) {
	return s.read(s.GuidePath, assets.GuideFile)
}

// ReadDocument reads an arbitrary text document, such as a generated GDD.
func (s *Store) ReadDocument(path string) (string, error) {
	return ReadText(path)
}

// read tries the configured path, then the same project-relative file
// from the working directory and its parent, then the embedded copy.
// It returns the text and where it came from.
func (s *Store) read(configured, rel string) (string, string, error) {
	candidates := Candidates(configured, rel)
	for _, path := range candidates {
		text, err := ReadText(path)
		if err == nil {
			return text, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", path, err
		}
	}

	if s.Embedded {
		data, err := assets.Read(rel)
		if err == nil {
			return string(data), "embedded:" + rel, nil
		}
	}
	return "", "", fmt.Errorf("%w: tried %s", ErrNotFound, strings.Join(candidates, ", "))
}

// Candidates lists the lookup order for a knowledge file, without
// duplicates.
func Candidates(configured, rel string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range []string{configured, rel, filepath.Join("..", rel)} {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// ReadText reads a file and rejects content that is not UTF-8 text.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, path)
	}
	return string(data), nil
}

// Entry is one item of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// List returns the entries of sub inside the knowledge root, sorted by
// name. sub may not escape the root.
func (s *Store) List(sub string) (string, []Entry, error) {
	dir := s.Root
	if sub != "" {
		clean := filepath.Clean(sub)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", nil, fmt.Errorf("path %q is outside the knowledge directory", sub)
		}
		dir = filepath.Join(s.Root, clean)
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dir, nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return dir, nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		e := Entry{Name: item.Name(), IsDir: item.IsDir()}
		if !e.IsDir {
			info, err := item.Info()
			if err != nil {
				return dir, nil, err
			}
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return dir, entries, nil
}

// Within resolves path to an absolute path and checks that it lies inside
// one of roots. Relative paths and roots resolve against the working
// directory.
func Within(path string, roots ...string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
}

// FormatListing renders a directory listing for agents.
func FormatListing(dir string, entries []Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Contents of %s:\n", dir)
	sb.WriteString(strings.Repeat("=", 50))
	for _, e := range entries {
		sb.WriteString("\n")
		if e.IsDir {
			fmt.Fprintf(&sb, "[dir]  %s/", e.Name)
		} else {
			fmt.Fprintf(&sb, "[file] %s (%d bytes)", e.Name, e.Size)
		}
	}
	return sb.String()
}
