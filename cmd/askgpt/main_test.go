package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/integrail/askgpt/pkg/config"
	"github.com/integrail/askgpt/pkg/llm/mocks"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_ORG_ID",
		"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_API_VERSION",
		"ASKGPT_BACKEND", "ASKGPT_MODEL", "ASKGPT_TEMPERATURE", "ASKGPT_TIMEOUT",
		"ASKGPT_SYSTEM", "ASKGPT_LOG_LEVEL",
	} {
		if value, ok := os.LookupEnv(key); ok {
			_ = os.Unsetenv(key)
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
	}
}

type providerRequest struct {
	Model               string `json:"model"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newProvider(t *testing.T, answer string, got *providerRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"test-model","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%q}}]}`, answer)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootCmdAsksQuestion(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	var got providerRequest
	srv := newProvider(t, "Go is a programming language.", &got)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--base-url", srv.URL, "--system", "be brief", "What", "is", "Go?"})

	Expect(cmd.ExecuteContext(context.Background())).To(Succeed())
	Expect(stdout.String()).To(Equal("Go is a programming language.\n"))
	Expect(got.Model).To(Equal("gpt-4o-mini"))
	Expect(got.MaxCompletionTokens).To(Equal(16_384))
	Expect(got.Messages).To(HaveLen(2))
	Expect(got.Messages[0].Content).To(Equal("be brief"))
	Expect(got.Messages[1].Content).To(Equal("What is Go?"))
}

func TestRootCmdRequiresQuestion(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--model", "test-model"})

	Expect(cmd.Execute()).To(MatchError(ContainSubstring("a question is required")))
}

func TestRootCmdRejectsBadHeader(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-H", "broken", "hello"})

	Expect(cmd.Execute()).To(MatchError(ContainSubstring("invalid --header")))
}

func TestRootCmdRejectsBadTemperature(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-T", "3", "hello"})

	Expect(cmd.Execute()).To(MatchError(ContainSubstring("temperature")))
}

func TestResolveConfigFlagsOverFile(t *testing.T) {
	RegisterTestingT(t)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "askgpt.yaml")
	Expect(os.WriteFile(path, []byte("model: gpt-4o\ntemperature: 0.1\ntimeout: 10s\n"), 0o644)).To(Succeed())

	cmd := newRootCmd()
	Expect(cmd.ParseFlags([]string{"--config", path, "--temperature", "1.5"})).To(Succeed())

	f := cliFlags{config: config.Default(), configPath: path}
	f.config.Temperature = 1.5
	cfg, err := resolveConfig(cmd, f)
	Expect(err).To(BeNil())
	Expect(cfg.Model).To(Equal("gpt-4o"))
	Expect(cfg.Temperature).To(Equal(1.5))
	Expect(cfg.Timeout).To(Equal(10 * time.Second))
}

func TestAskSavesAnswer(t *testing.T) {
	RegisterTestingT(t)
	chat := mocks.NewClient(t)
	chat.EXPECT().AskQuestion(context.Background(), "be brief", "What is Go?", "gpt-4o-mini", 0.7).Return("A language.", nil).Once()

	cfg := config.Default()
	cfg.System = "be brief"
	output := filepath.Join(t.TempDir(), "answer.md")

	var stdout, stderr bytes.Buffer
	Expect(ask(context.Background(), &stdout, &stderr, chat, cfg, "What is Go?", output)).To(Succeed())
	Expect(stdout.String()).To(Equal("A language.\n"))
	Expect(stderr.String()).To(ContainSubstring("answer saved to"))

	content, err := os.ReadFile(output)
	Expect(err).To(BeNil())
	Expect(string(content)).To(Equal("A language."))
}

func TestAskReturnsError(t *testing.T) {
	RegisterTestingT(t)
	chat := mocks.NewClient(t)
	failure := errors.New("error asking chat model gpt-4o-mini: 503")
	chat.EXPECT().AskQuestion(context.Background(), "", "hi", "gpt-4o-mini", 0.7).Return("", failure).Once()

	var stdout bytes.Buffer
	err := ask(context.Background(), &stdout, &bytes.Buffer{}, chat, config.Default(), "hi", "")
	Expect(err).To(Equal(failure))
	Expect(stdout.String()).To(BeEmpty())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	RegisterTestingT(t)

	_, err := newLogger("chatty", &bytes.Buffer{})
	Expect(err).To(MatchError(ContainSubstring("invalid log level")))
}
