package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/Gil-1/crewai-gamedevs/internal/knowledge"
	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
)

// Tool names as agents see them.
const (
	TemplateReaderName     = "gdd_template_reader"
	GuideSearchName        = "design_guide_search"
	KnowledgeDirectoryName = "knowledge_directory"
	StructureValidatorName = "gdd_structure_validator"
)

// Default returns the registry with every document tool. The structure
// validator reads documents from the knowledge root and from docRoots.
func Default(store *knowledge.Store, docRoots ...string) *Registry {
	return NewRegistry(
		&TemplateReader{Store: store},
		&GuideSearch{Store: store},
		&KnowledgeDirectory{Store: store},
		&StructureValidator{Store: store, Roots: append([]string{store.Root}, docRoots...)},
	)
}

type templateReaderInput struct {
	Section string `json:"section,omitempty" jsonschema_description:"Specific template section to retrieve (optional)"`
}

// TemplateReader returns the GDD template or one of its sections.
type TemplateReader struct {
	Store *knowledge.Store
}

func (t *TemplateReader) Name() string { return TemplateReaderName }

func (t *TemplateReader) Description() string {
	return "Reads the Game Design Document template to understand required sections and formatting. " +
		"Use this to make your output follow the GDD template structure. " +
		"Returns the full template, or a single section when one is named."
}

func (t *TemplateReader) InputSchema() *jsonschema.Schema { return reflectSchema(&templateReaderInput{}) }

func (t *TemplateReader) Run(_ context.Context, args json.RawMessage) (string, error) {
	var in templateReaderInput
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	text, _, err := t.Store.Template()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Section) == "" {
		return text, nil
	}

	doc := mdx.Parse(text)
	sec, err := mdx.Extract(doc, in.Section)
	if errors.Is(err, mdx.ErrSectionNotFound) {
		return fmt.Sprintf("Section '%s' not found in template. Available sections include: %s",
			in.Section, strings.Join(mdx.List(doc), ", ")), nil
	}
	if err != nil {
		return "", err
	}
	return sec.Text(), nil
}

type guideSearchInput struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"Search query to find relevant design guidance and best practices"`
}

// GuideSearch ranks design guide sections against a query.
type GuideSearch struct {
	Store *knowledge.Store
}

func (t *GuideSearch) Name() string { return GuideSearchName }

func (t *GuideSearch) Description() string {
	return "Searches the game design guide for guidance and examples related to writing a " +
		"game design document. Returns up to three of the most relevant sections."
}

func (t *GuideSearch) InputSchema() *jsonschema.Schema { return reflectSchema(&guideSearchInput{}) }

func (t *GuideSearch) Run(_ context.Context, args json.RawMessage) (string, error) {
	var in guideSearchInput
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	text, _, err := t.Store.Guide()
	if err != nil {
		return "", err
	}

	results, err := mdx.Search(mdx.Parse(text), in.Query)
	if err == nil {
		return mdx.FormatResults(results), nil
	}
	if !errors.Is(err, mdx.ErrNoMatch) {
		return "", err
	}
	if chunk, ok := knowledge.Fallback(in.Query, text); ok {
		return chunk, nil
	}
	return fmt.Sprintf("No specific guidance found for '%s'. Consider searching for: %s.",
		in.Query, strings.Join(knowledge.SuggestedTerms(), ", ")), nil
}

type knowledgeDirectoryInput struct {
	Path string `json:"path,omitempty" jsonschema_description:"Subdirectory of the knowledge directory to explore (optional)"`
}

// KnowledgeDirectory lists the available knowledge files.
type KnowledgeDirectory struct {
	Store *knowledge.Store
}

func (t *KnowledgeDirectory) Name() string { return KnowledgeDirectoryName }

func (t *KnowledgeDirectory) Description() string {
	return "Explores the knowledge directory to find available templates, guides and resources."
}

func (t *KnowledgeDirectory) InputSchema() *jsonschema.Schema {
	return reflectSchema(&knowledgeDirectoryInput{})
}

func (t *KnowledgeDirectory) Run(_ context.Context, args json.RawMessage) (string, error) {
	var in knowledgeDirectoryInput
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	dir, entries, err := t.Store.List(in.Path)
	if err != nil {
		return "", err
	}
	return knowledge.FormatListing(dir, entries), nil
}

type structureValidatorInput struct {
	DocumentPath string `json:"document_path" jsonschema:"required" jsonschema_description:"Path of the markdown document to check"`
	TemplatePath string `json:"template_path,omitempty" jsonschema_description:"Template to check against (defaults to the GDD template)"`
}

// StructureValidator checks a document's sections against the template.
type StructureValidator struct {
	Store *knowledge.Store
	// Roots confines document_path and template_path. Empty allows any path.
	Roots []string
}

func (t *StructureValidator) Name() string { return StructureValidatorName }

func (t *StructureValidator) Description() string {
	return "Checks that a markdown document has exactly the level-2 sections of the GDD template " +
		"and reports missing and extra sections."
}

func (t *StructureValidator) InputSchema() *jsonschema.Schema {
	return reflectSchema(&structureValidatorInput{})
}

func (t *StructureValidator) Run(_ context.Context, args json.RawMessage) (string, error) {
	var in structureValidatorInput
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.DocumentPath == "" {
		return "", errors.New("document_path is required")
	}
	docPath, err := t.confine(in.DocumentPath)
	if err != nil {
		return "", err
	}
	tmplPath := in.TemplatePath
	if tmplPath != "" {
		if tmplPath, err = t.confine(tmplPath); err != nil {
			return "", err
		}
	}
	report, err := ValidateFile(t.Store, docPath, tmplPath)
	if err != nil {
		return "", err
	}
	return FormatReport(report), nil
}

func (t *StructureValidator) confine(path string) (string, error) {
	if len(t.Roots) == 0 {
		return path, nil
	}
	return knowledge.Within(path, t.Roots...)
}

// ValidateFile reads a document and a template and validates one against
// the other. An empty templatePath uses the store's template.
func ValidateFile(store *knowledge.Store, docPath, templatePath string) (mdx.Report, error) {
	docText, err := store.ReadDocument(docPath)
	if err != nil {
		return mdx.Report{}, err
	}
	var tmplText string
	if templatePath != "" {
		tmplText, err = knowledge.ReadText(templatePath)
	} else {
		tmplText, _, err = store.Template()
	}
	if err != nil {
		return mdx.Report{}, err
	}
	return mdx.Validate(mdx.Parse(docText), mdx.Parse(tmplText)), nil
}

// FormatReport renders a validation report as plain text.
func FormatReport(r mdx.Report) string {
	var sb strings.Builder
	if r.Passed {
		sb.WriteString("Structure check PASSED\n")
	} else {
		sb.WriteString("Structure check FAILED\n")
	}
	fmt.Fprintf(&sb, "Required: %d  Found: %d  Missing: %d\n",
		r.RequiredCount(), r.FoundCount(), r.MissingCount())
	writeList(&sb, "Missing sections", r.Missing)
	writeList(&sb, "Extra sections", r.Extra)
	return strings.TrimRight(sb.String(), "\n")
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
