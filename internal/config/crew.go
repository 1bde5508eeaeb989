package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LLMDef is the llm block of an agent definition.
type LLMDef struct {
	Preset      string   `yaml:"preset" validate:"omitempty,preset"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature" validate:"omitempty,gte=0,lte=1"`
	TopP        *float64 `yaml:"top_p" validate:"omitempty,gt=0,lte=1"`
	MaxTokens   int      `yaml:"max_tokens" validate:"gte=0"`
}

// AgentDef is one entry of agents.yaml.
type AgentDef struct {
	Key       string   `yaml:"-" validate:"required"`
	Role      string   `yaml:"role" validate:"required"`
	Goal      string   `yaml:"goal" validate:"required"`
	Backstory string   `yaml:"backstory" validate:"required"`
	LLM       LLMDef   `yaml:"llm"`
	Tools     []string `yaml:"tools" validate:"dive,required"`
}

// TaskDef is one entry of tasks.yaml.
type TaskDef struct {
	Key              string   `yaml:"-" validate:"required"`
	Description      string   `yaml:"description" validate:"required"`
	ExpectedOutput   string   `yaml:"expected_output" validate:"required"`
	Agent            string   `yaml:"agent" validate:"required"`
	Context          []string `yaml:"context" validate:"dive,required"`
	OutputFile       string   `yaml:"output_file"`
	ValidateTemplate bool     `yaml:"validate_template"`
}

// CrewDef holds agents and tasks in file order.
type CrewDef struct {
	Agents []AgentDef `validate:"required,min=1,dive"`
	Tasks  []TaskDef  `validate:"required,min=1,dive"`
}

// Agent returns the agent definition with the given key.
func (c *CrewDef) Agent(key string) (AgentDef, bool) {
	for _, a := range c.Agents {
		if a.Key == key {
			return a, true
		}
	}
	return AgentDef{}, false
}

// LoadCrewFiles reads and validates agents.yaml and tasks.yaml.
func LoadCrewFiles(agentsPath, tasksPath string) (*CrewDef, error) {
	agentsData, err := os.ReadFile(agentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents config: %w", err)
	}
	tasksData, err := os.ReadFile(tasksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks config: %w", err)
	}
	return ParseCrew(agentsData, tasksData)
}

// ParseCrew decodes and validates crew definitions.
func ParseCrew(agentsData, tasksData []byte) (*CrewDef, error) {
	var def CrewDef

	err := decodeOrdered(agentsData, func(key string, node *yaml.Node) error {
		var a AgentDef
		if err := node.Decode(&a); err != nil {
			return err
		}
		a.Key = key
		def.Agents = append(def.Agents, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse agents config: %w", err)
	}

	err = decodeOrdered(tasksData, func(key string, node *yaml.Node) error {
		var t TaskDef
		if err := node.Decode(&t); err != nil {
			return err
		}
		t.Key = key
		def.Tasks = append(def.Tasks, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse tasks config: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// decodeOrdered walks a top-level YAML mapping in file order. Task order
// in tasks.yaml is execution order, so a plain map will not do.
func decodeOrdered(data []byte, fn func(key string, node *yaml.Node) error) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return errors.New("top level must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if err := fn(root.Content[i].Value, root.Content[i+1]); err != nil {
			return fmt.Errorf("%s: %w", root.Content[i].Value, err)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		_, ok := presets[fl.Field().String()]
		return ok
	})
	return v
}

// Validate checks field constraints and cross references: every task
// names a defined agent and only takes context from tasks that run
// before it.
func (c *CrewDef) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid crew definition: %w", err)
	}

	agents := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if agents[a.Key] {
			return fmt.Errorf("duplicate agent %q", a.Key)
		}
		agents[a.Key] = true
	}

	seen := make(map[string]bool, len(c.Tasks))
	for _, t := range c.Tasks {
		if seen[t.Key] {
			return fmt.Errorf("duplicate task %q", t.Key)
		}
		if !agents[t.Agent] {
			return fmt.Errorf("task %q: unknown agent %q", t.Key, t.Agent)
		}
		for _, ctx := range t.Context {
			if !seen[ctx] {
				return fmt.Errorf("task %q: context %q must name an earlier task", t.Key, ctx)
			}
		}
		seen[t.Key] = true
	}
	return nil
}
