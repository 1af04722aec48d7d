package config

import (
	"os"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	BackendOpenAI    = "openai"
	BackendLangChain = "langchain"

	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
	DefaultLogLevel    = "info"

	MaxTemperature = 2.0
)

type Config struct {
	APIKey          string        `json:"apiKey" yaml:"apiKey" env:"OPENAI_API_KEY"`
	BaseURL         string        `json:"baseURL" yaml:"baseURL" env:"OPENAI_BASE_URL"`
	Organization    string        `json:"organization" yaml:"organization" env:"OPENAI_ORG_ID"`
	AzureEndpoint   string        `json:"azureEndpoint" yaml:"azureEndpoint" env:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIKey     string        `json:"azureAPIKey" yaml:"azureAPIKey" env:"AZURE_OPENAI_API_KEY"`
	AzureAPIVersion string        `json:"azureAPIVersion" yaml:"azureAPIVersion" env:"AZURE_OPENAI_API_VERSION"`
	Backend         string        `json:"backend" yaml:"backend" env:"ASKGPT_BACKEND"`
	Model           string        `json:"model" yaml:"model" env:"ASKGPT_MODEL"`
	Temperature     float64       `json:"temperature" yaml:"temperature" env:"ASKGPT_TEMPERATURE"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout" env:"ASKGPT_TIMEOUT"`
	System          string        `json:"system" yaml:"system" env:"ASKGPT_SYSTEM"`
	LogLevel        string        `json:"logLevel" yaml:"logLevel" env:"ASKGPT_LOG_LEVEL"`
}

func Default() Config {
	return Config{
		Backend:     BackendOpenAI,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
		LogLevel:    DefaultLogLevel,
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}
	loadDotEnv()
	if err := env.Set(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to read configuration from environment")
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %q", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %q", path)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return errors.Errorf("temperature must be within [0, %.0f], got %v", MaxTemperature, c.Temperature)
	}
	if c.Model == "" {
		return errors.Errorf("model must not be empty")
	}
	switch c.Backend {
	case BackendOpenAI, BackendLangChain:
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

type apiKeyEnv struct {
	APIKey string `env:"OPENAI_API_KEY" required:"true"`
}

// APIKeyFromEnv returns OPENAI_API_KEY, consulting .env when the variable is not exported.
func APIKeyFromEnv() (string, error) {
	loadDotEnv()
	var e apiKeyEnv
	if err := env.Set(&e); err != nil {
		return "", err
	}
	if e.APIKey == "" {
		return "", errors.Errorf("OPENAI_API_KEY is empty")
	}
	return e.APIKey, nil
}

// missing .env is the common case
func loadDotEnv() {
	_ = godotenv.Load()
}
