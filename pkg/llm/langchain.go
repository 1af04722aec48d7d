package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/integrail/askgpt/pkg/config"
	"github.com/integrail/askgpt/pkg/tokens"
)

// langchaingo reports zero choices with an unexported sentinel carrying this text
const langchainEmptyResponse = "empty response"

func isLangChainEmptyResponse(err error) bool {
	return errors.Is(err, openai.ErrEmptyResponse) || err.Error() == langchainEmptyResponse
}

// NewLangChain creates a Client backed by langchaingo's OpenAI LLM.
// Azure endpoints are only supported by New.
func NewLangChain(timeout time.Duration, opts ...Option) (Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if timeout <= 0 {
		return nil, &CreateClientError{Timeout: timeout, Kind: KindBuildClient, Err: errors.Errorf("timeout must be positive")}
	}
	if o.azureEndpoint != "" {
		return nil, &CreateClientError{Timeout: timeout, Kind: KindBuildClient, Err: errors.Errorf("azure endpoints are not supported by the langchain backend")}
	}

	apiKey := o.apiKey
	if apiKey == "" {
		envKey, err := config.APIKeyFromEnv()
		if err != nil {
			return nil, &CreateClientError{Timeout: timeout, Kind: KindAPIKey, Err: errors.Wrapf(ErrMissingAPIKey, "%v", err)}
		}
		apiKey = envKey
	}

	httpClient := o.httpClient(timeout)
	if len(o.headers) > 0 {
		next := httpClient.Transport
		headers := o.headers
		httpClient.Transport = RoundTripFn(func(req *http.Request) (*http.Response, error) {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			return next.RoundTrip(req)
		})
	}

	llmOpts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithHTTPClient(httpClient),
	}
	if o.baseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(o.baseURL))
	}
	if o.organization != "" {
		llmOpts = append(llmOpts, openai.WithOrganization(o.organization))
	}
	client, err := openai.New(llmOpts...)
	if err != nil {
		return nil, &CreateClientError{Timeout: timeout, Kind: KindBuildClient, Err: err}
	}

	return &langchainClient{
		log:    o.log,
		client: client,
		budget: o.budget,
	}, nil
}

type langchainClient struct {
	log    logrus.FieldLogger
	client *openai.LLM
	budget TokenBudget
}

func (l *langchainClient) AskQuestion(ctx context.Context, system, question, model string, temperature float64) (string, error) {
	request := Request{
		System:      system,
		Question:    question,
		Model:       model,
		Temperature: temperature,
	}
	contents := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, request.System),
		llms.TextParts(llms.ChatMessageTypeHuman, request.Question),
	}
	callOpts := []llms.CallOption{
		llms.WithModel(request.Model),
		llms.WithTemperature(request.Temperature),
	}
	// langchaingo only sends max_tokens, which reasoning models reject
	if l.budget != nil && !tokens.IsReasoning(request.Model) {
		maxTokens, err := l.budget.Budget(request.Model, request.Messages())
		if err != nil {
			return "", &ChatError{Model: model, Kind: KindBuildRequest, Err: err}
		}
		if maxTokens > 0 {
			callOpts = append(callOpts, llms.WithMaxTokens(maxTokens))
		}
	}

	log := l.log.WithFields(logrus.Fields{
		"model":       model,
		"temperature": temperature,
		"backend":     "langchain",
	})
	start := time.Now()
	res, err := l.client.GenerateContent(ctx, contents, callOpts...)
	switch {
	case err != nil && !isLangChainEmptyResponse(err):
		log.WithError(err).Warn("failed to generate content for prompt")
		return "", &ChatError{Model: model, Kind: KindRequest, Err: err}
	case err != nil || len(res.Choices) == 0:
		log.Warn("chat completion returned no choices")
		return "", &ChatError{Model: model, Kind: KindNoCompletion, Err: ErrNoCompletion}
	}
	log.WithField("duration", time.Since(start)).Debug("chat completion received")

	return res.Choices[0].Content, nil
}
