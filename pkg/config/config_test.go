package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

var configEnv = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_ORG_ID",
	"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_API_VERSION",
	"ASKGPT_BACKEND", "ASKGPT_MODEL", "ASKGPT_TEMPERATURE", "ASKGPT_TIMEOUT",
	"ASKGPT_SYSTEM", "ASKGPT_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		if value, ok := os.LookupEnv(key); ok {
			_ = os.Unsetenv(key)
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)

	cfg, err := Load("")
	Expect(err).To(BeNil())
	Expect(cfg).To(Equal(Default()))
	Expect(cfg.Validate()).To(Succeed())
}

func TestLoadFileAndEnv(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "askgpt.yaml")
	Expect(os.WriteFile(path, []byte(`
model: gpt-4o
temperature: 0.2
timeout: 15s
system: You are terse.
backend: langchain
`), 0o644)).To(Succeed())

	t.Setenv("ASKGPT_MODEL", "gpt-4.1")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	Expect(err).To(BeNil())
	Expect(cfg.Model).To(Equal("gpt-4.1"))
	Expect(cfg.Temperature).To(Equal(0.2))
	Expect(cfg.Timeout).To(Equal(15 * time.Second))
	Expect(cfg.System).To(Equal("You are terse."))
	Expect(cfg.Backend).To(Equal(BackendLangChain))
	Expect(cfg.APIKey).To(Equal("sk-test"))
}

func TestLoadMissingFile(t *testing.T) {
	RegisterTestingT(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero temperature", mutate: func(c *Config) { c.Temperature = 0 }},
		{name: "max temperature", mutate: func(c *Config) { c.Temperature = 2 }},
		{name: "negative temperature", mutate: func(c *Config) { c.Temperature = -0.1 }, wantErr: "temperature"},
		{name: "temperature too high", mutate: func(c *Config) { c.Temperature = 2.5 }, wantErr: "temperature"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: "model"},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "ollama" }, wantErr: "backend"},
	}

	for _, tc := range testCases {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.wantErr == "" && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)) {
			t.Errorf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)

	_, err := APIKeyFromEnv()
	Expect(err).NotTo(BeNil())

	t.Setenv("OPENAI_API_KEY", "sk-live")
	key, err := APIKeyFromEnv()
	Expect(err).To(BeNil())
	Expect(key).To(Equal("sk-live"))
}
