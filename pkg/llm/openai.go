package llm

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/integrail/askgpt/pkg/config"
)

const DefaultAzureAPIVersion = "2024-10-21"

// New creates an OpenAI chat client whose requests are bounded by timeout.
// Unless WithAPIKey or WithAzure is given the key is read from OPENAI_API_KEY.
func New(timeout time.Duration, opts ...Option) (Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if timeout <= 0 {
		return nil, &CreateClientError{
			Timeout: timeout,
			Kind:    KindBuildClient,
			Err:     errors.Errorf("timeout must be positive"),
		}
	}

	requestOpts := []option.RequestOption{
		option.WithHTTPClient(o.httpClient(timeout)),
		// rate limits and server errors are surfaced to the caller as is
		option.WithMaxRetries(0),
	}
	authOpts, err := o.authOptions(timeout)
	if err != nil {
		return nil, err
	}
	requestOpts = append(requestOpts, authOpts...)
	for k, v := range o.headers {
		requestOpts = append(requestOpts, option.WithHeader(k, v))
	}

	return &openaiClient{
		log:    o.log,
		client: openai.NewClient(requestOpts...),
		budget: o.budget,
	}, nil
}

func (o *options) authOptions(timeout time.Duration) ([]option.RequestOption, error) {
	if o.azureEndpoint != "" {
		return o.azureOptions(timeout)
	}

	apiKey := o.apiKey
	if apiKey == "" {
		envKey, err := config.APIKeyFromEnv()
		if err != nil {
			return nil, &CreateClientError{
				Timeout: timeout,
				Kind:    KindAPIKey,
				Err:     errors.Wrapf(ErrMissingAPIKey, "%v", err),
			}
		}
		apiKey = envKey
	}

	res := []option.RequestOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		res = append(res, option.WithBaseURL(o.baseURL))
	}
	if o.organization != "" {
		res = append(res, option.WithOrganization(o.organization))
	}
	return res, nil
}

func (o *options) azureOptions(timeout time.Duration) ([]option.RequestOption, error) {
	apiVersion := o.azureAPIVersion
	if apiVersion == "" {
		apiVersion = DefaultAzureAPIVersion
	}
	res := []option.RequestOption{azure.WithEndpoint(o.azureEndpoint, apiVersion)}

	switch {
	case o.azureAPIKey != "":
		res = append(res, azure.WithAPIKey(o.azureAPIKey))
	case o.azureCredential != nil:
		res = append(res, azure.WithTokenCredential(o.azureCredential))
	default:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, &CreateClientError{
				Timeout: timeout,
				Kind:    KindAPIKey,
				Err:     errors.Wrapf(err, "failed to init azure credential"),
			}
		}
		res = append(res, azure.WithTokenCredential(cred))
	}
	return res, nil
}

type openaiClient struct {
	log    logrus.FieldLogger
	client openai.Client
	budget TokenBudget
}

func (c *openaiClient) AskQuestion(ctx context.Context, system, question, model string, temperature float64) (string, error) {
	request := Request{
		System:      system,
		Question:    question,
		Model:       model,
		Temperature: temperature,
	}
	params, err := c.buildRequest(request)
	if err != nil {
		return "", err
	}

	log := c.log.WithFields(logrus.Fields{
		"model":       model,
		"temperature": temperature,
	})
	start := time.Now()
	res, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.WithError(err).Warn("chat completion request failed")
		return "", &ChatError{Model: model, Kind: KindRequest, Err: err}
	}
	log = log.WithField("duration", time.Since(start))
	if len(res.Choices) == 0 {
		log.Warn("chat completion returned no choices")
		return "", &ChatError{Model: model, Kind: KindNoCompletion, Err: ErrNoCompletion}
	}
	log.Debug("chat completion received")

	return res.Choices[0].Message.Content, nil
}

func (c *openaiClient) buildRequest(request Request) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.System),
			openai.UserMessage(request.Question),
		},
		Temperature: openai.Float(request.Temperature),
	}
	if c.budget == nil {
		return params, nil
	}

	maxTokens, err := c.budget.Budget(request.Model, request.Messages())
	if err != nil {
		return params, &ChatError{Model: request.Model, Kind: KindBuildRequest, Err: err}
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}
	return params, nil
}
