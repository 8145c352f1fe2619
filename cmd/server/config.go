package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oselz/docqa-web-ui/internal/handlers"
	"github.com/oselz/docqa-web-ui/internal/services"
	"github.com/oselz/docqa-web-ui/internal/session"
)

type dispatcherConfig interface {
	dispatcher(logger *slog.Logger) (session.Dispatcher, error)
}

// BaseDispatcherConfig contains the common fields for all dispatcher configurations.
type BaseDispatcherConfig struct {
	Provider string `yaml:"provider"`
}

type config struct {
	Port       string           `yaml:"port"`
	Dispatcher dispatcherConfig `yaml:"dispatcher"`
	Labels     labelsConfig     `yaml:"labels"`
	Features   featuresConfig   `yaml:"features"`
	Cache      cacheConfig      `yaml:"cache"`
}

type labelsConfig struct {
	Title          string   `yaml:"title"`
	Placeholder    string   `yaml:"placeholder"`
	ErrorBanner    string   `yaml:"errorBanner"`
	DefaultPrompts []string `yaml:"defaultPrompts"`
}

type featuresConfig struct {
	ShowCopyButton bool `yaml:"showCopyButton"`
}

type cacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

type rrrConfig struct {
	BaseDispatcherConfig `yaml:",inline"`
	Endpoint             string                       `yaml:"endpoint"`
	Overrides            *services.RetrievalOverrides `yaml:"overrides"`
}

type ollamaConfig struct {
	BaseDispatcherConfig `yaml:",inline"`
	Host                 string `yaml:"host"`
	Model                string `yaml:"model"`
	SystemPrompt         string `yaml:"systemPrompt"`
}

type openAIConfig struct {
	BaseDispatcherConfig `yaml:",inline"`
	APIKey               string `yaml:"apiKey"`
	Model                string `yaml:"model"`
	SystemPrompt         string `yaml:"systemPrompt"`
}

func (c *config) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig struct {
		Port       string         `yaml:"port"`
		Dispatcher map[string]any `yaml:"dispatcher"`
		Labels     labelsConfig   `yaml:"labels"`
		Features   featuresConfig `yaml:"features"`
		Cache      cacheConfig    `yaml:"cache"`
	}

	if err := value.Decode(&rawConfig); err != nil {
		return err
	}

	c.Port = rawConfig.Port
	c.Labels = rawConfig.Labels
	c.Features = rawConfig.Features
	c.Cache = rawConfig.Cache

	provider, ok := rawConfig.Dispatcher["provider"].(string)
	if !ok {
		return fmt.Errorf("dispatcher provider is required")
	}

	dispatcherRawYAML, err := yaml.Marshal(rawConfig.Dispatcher)
	if err != nil {
		return err
	}

	var dc dispatcherConfig
	switch provider {
	case "rrr":
		dc = &rrrConfig{}
	case "ollama":
		dc = &ollamaConfig{}
	case "openai":
		dc = &openAIConfig{}
	default:
		return fmt.Errorf("unknown dispatcher provider: %s", provider)
	}

	if err := yaml.Unmarshal(dispatcherRawYAML, dc); err != nil {
		return err
	}

	c.Dispatcher = dc

	return nil
}

func (c config) labels() handlers.Labels {
	labels := handlers.Labels{
		Title:          c.Labels.Title,
		Placeholder:    c.Labels.Placeholder,
		ErrorBanner:    c.Labels.ErrorBanner,
		DefaultPrompts: c.Labels.DefaultPrompts,
	}
	if labels.Title == "" {
		labels.Title = "Ask your documentation"
	}
	if labels.Placeholder == "" {
		labels.Placeholder = "Type a new question"
	}
	if labels.ErrorBanner == "" {
		labels.ErrorBanner = "Something went wrong while answering. Please try again."
	}
	return labels
}

func (r rrrConfig) dispatcher(logger *slog.Logger) (session.Dispatcher, error) {
	if r.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	overrides := services.DefaultRetrievalOverrides()
	if r.Overrides != nil {
		overrides = *r.Overrides
	}
	return services.NewReadRetrieveRead(r.Endpoint, overrides, logger), nil
}

func (o ollamaConfig) dispatcher(*slog.Logger) (session.Dispatcher, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	host := o.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	return services.NewOllama(host, o.Model, o.SystemPrompt), nil
}

func (o openAIConfig) dispatcher(logger *slog.Logger) (session.Dispatcher, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return services.NewOpenAI(apiKey, o.Model, o.SystemPrompt, logger), nil
}
