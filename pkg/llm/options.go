package llm

import (
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/integrail/askgpt/pkg/config"
	"github.com/integrail/askgpt/pkg/tokens"
)

// TokenBudget decides the completion token limit sent with a request.
// A zero budget leaves the limit to the provider.
type TokenBudget interface {
	Budget(model string, messages []tokens.Message) (int, error)
}

type Option func(o *options)

type options struct {
	log             logrus.FieldLogger
	apiKey          string
	baseURL         string
	organization    string
	headers         map[string]string
	transport       http.RoundTripper
	budget          TokenBudget
	azureEndpoint   string
	azureAPIVersion string
	azureAPIKey     string
	azureCredential azcore.TokenCredential
}

func defaultOptions() options {
	return options{
		log:    logrus.StandardLogger(),
		budget: tokens.NewBudgeter(),
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithAPIKey sets the key explicitly instead of reading OPENAI_API_KEY.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint (proxies, Ollama, vLLM).
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

func WithOrganization(organization string) Option {
	return func(o *options) {
		o.organization = organization
	}
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = lo.Assign(o.headers, headers)
	}
}

// WithTransport replaces http.DefaultTransport underneath the timeout-bound client.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithTokenBudget replaces the tiktoken budget; nil disables completion limits.
func WithTokenBudget(budget TokenBudget) Option {
	return func(o *options) {
		o.budget = budget
	}
}

// WithAzure routes requests to an Azure OpenAI resource, where the model name is the deployment name.
func WithAzure(endpoint, apiVersion string) Option {
	return func(o *options) {
		o.azureEndpoint = endpoint
		o.azureAPIVersion = apiVersion
	}
}

func WithAzureAPIKey(apiKey string) Option {
	return func(o *options) {
		o.azureAPIKey = apiKey
	}
}

// WithAzureCredential authenticates Azure requests with Entra ID tokens. Without it
// (and without WithAzureAPIKey) the default Azure credential chain is used.
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(o *options) {
		o.azureCredential = cred
	}
}

// FromConfig maps the connection part of cfg onto client options.
func FromConfig(cfg config.Config) []Option {
	opts := []Option{
		WithAPIKey(cfg.APIKey),
		WithBaseURL(cfg.BaseURL),
		WithOrganization(cfg.Organization),
	}
	if cfg.AzureEndpoint != "" {
		opts = append(opts,
			WithAzure(cfg.AzureEndpoint, lo.If(cfg.AzureAPIVersion != "", cfg.AzureAPIVersion).Else(DefaultAzureAPIVersion)),
			WithAzureAPIKey(cfg.AzureAPIKey),
		)
	}
	return opts
}

func (o *options) httpClient(timeout time.Duration) *http.Client {
	transport := o.transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		// Limiting request duration
		Timeout:   timeout,
		Transport: transport,
	}
}
