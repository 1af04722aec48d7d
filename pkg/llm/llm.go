package llm

import (
	"context"
	"net/http"

	"github.com/integrail/askgpt/pkg/tokens"
)

//go:generate ../../bin/mockery --config ../../.mockery.yaml

// Client asks a chat model a single question and returns the text of its first answer.
// Implementations are safe for concurrent use.
type Client interface {
	AskQuestion(ctx context.Context, system, question, model string, temperature float64) (string, error)
}

type Request struct {
	System      string  `json:"system" yaml:"system"`
	Question    string  `json:"question" yaml:"question"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Messages returns the system and user turns in the order they are sent.
func (r Request) Messages() []tokens.Message {
	return []tokens.Message{
		{Role: roleSystem, Content: r.System},
		{Role: roleUser, Content: r.Question},
	}
}

const (
	roleSystem = "system"
	roleUser   = "user"
)

type RoundTripFn func(req *http.Request) (*http.Response, error)

func (f RoundTripFn) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
