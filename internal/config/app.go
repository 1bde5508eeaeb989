// Package config loads application settings, LLM presets and the crew
// definition files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GAMEDEVS_PROFILE.
const EnvPrefix = "GAMEDEVS"

// App is the resolved application configuration.
type App struct {
	Profile       Profile `mapstructure:"profile" validate:"oneof=production testing"`
	Agent         string  `mapstructure:"agent" validate:"oneof=claude codex"`
	ContextTokens int     `mapstructure:"context_tokens" validate:"gte=0"`
	Paths         Paths   `mapstructure:"paths"`
	Log           Log     `mapstructure:"log"`
}

// Paths locates knowledge files, crew definitions and outputs.
type Paths struct {
	Knowledge string `mapstructure:"knowledge" validate:"required"`
	Template  string `mapstructure:"template" validate:"required"`
	Guide     string `mapstructure:"guide" validate:"required"`
	Agents    string `mapstructure:"agents" validate:"required"`
	Tasks     string `mapstructure:"tasks" validate:"required"`
	Output    string `mapstructure:"output" validate:"required"`
	State     string `mapstructure:"state" validate:"required"`
	Training  string `mapstructure:"training"`
}

// Log configures the logrus logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("profile", string(ProfileProduction))
	v.SetDefault("agent", "claude")
	v.SetDefault("context_tokens", 6000)
	v.SetDefault("paths.knowledge", "knowledge")
	v.SetDefault("paths.template", "knowledge/game_design_document/template.mdx")
	v.SetDefault("paths.guide", "knowledge/game_design_document/instructions.mdx")
	v.SetDefault("paths.agents", "config/agents.yaml")
	v.SetDefault("paths.tasks", "config/tasks.yaml")
	v.SetDefault("paths.output", "out")
	v.SetDefault("paths.state", ".gamedevs")
	v.SetDefault("paths.training", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads .env, the optional config file and GAMEDEVS_* variables into
// an App. An explicitly named file must exist; the default gamedevs.yaml
// in the working directory is optional.
func Load(v *viper.Viper, file string) (*App, error) {
	// .env is optional
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gamedevs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(app); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &app, nil
}
