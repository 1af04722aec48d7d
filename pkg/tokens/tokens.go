// Package tokens estimates how many completion tokens a chat request can ask for.
package tokens

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	// per-message overhead and reply priming, see openai-cookbook "How to count tokens"
	tokensPerMessage = 3
	tokensPerReply   = 3

	fallbackEncoding = "cl100k_base"
)

var ErrOutOfRange = errors.New("max tokens out of range")

// encodings are embedded, tokenizing never downloads BPE ranks
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

type Message struct {
	Role    string
	Content string
}

type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

type Limits struct {
	Context   int
	MaxOutput int
	// Reasoning models only accept max_completion_tokens, never max_tokens.
	Reasoning bool
}

var knownLimits = map[string]Limits{
	"gpt-5":                  {Context: 400_000, MaxOutput: 128_000, Reasoning: true},
	"gpt-5-chat":             {Context: 128_000, MaxOutput: 16_384},
	"gpt-4.1":                {Context: 1_047_576, MaxOutput: 32_768},
	"gpt-4o":                 {Context: 128_000, MaxOutput: 16_384},
	"gpt-4o-2024-05-13":      {Context: 128_000, MaxOutput: 4_096},
	"gpt-4-turbo":            {Context: 128_000, MaxOutput: 4_096},
	"gpt-4-vision":           {Context: 128_000, MaxOutput: 4_096},
	"gpt-4-1106":             {Context: 128_000, MaxOutput: 4_096},
	"gpt-4-0125":             {Context: 128_000, MaxOutput: 4_096},
	"gpt-4-32k":              {Context: 32_768, MaxOutput: 32_768},
	"gpt-4":                  {Context: 8_192, MaxOutput: 8_192},
	"gpt-3.5-turbo-instruct": {Context: 4_096, MaxOutput: 4_096},
	"gpt-3.5-turbo":          {Context: 16_385, MaxOutput: 4_096},
	"o1":                     {Context: 200_000, MaxOutput: 100_000, Reasoning: true},
	"o1-mini":                {Context: 128_000, MaxOutput: 65_536, Reasoning: true},
	"o1-preview":             {Context: 128_000, MaxOutput: 32_768, Reasoning: true},
	"o3":                     {Context: 200_000, MaxOutput: 100_000, Reasoning: true},
	"o4-mini":                {Context: 200_000, MaxOutput: 100_000, Reasoning: true},
}

// longest prefix first so "gpt-4o" wins over "gpt-4"
var knownPrefixes = func() []string {
	prefixes := make([]string, 0, len(knownLimits))
	for prefix := range knownLimits {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}()

// LimitsFor returns the context window and output cap of model, matched by name prefix.
func LimitsFor(model string) (Limits, bool) {
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(model, prefix) {
			return knownLimits[prefix], true
		}
	}
	return Limits{}, false
}

// IsReasoning reports whether model is a known reasoning model.
func IsReasoning(model string) bool {
	limits, ok := LimitsFor(model)
	return ok && limits.Reasoning
}

func CountMessages(enc Encoder, messages []Message) int {
	total := tokensPerReply
	for _, msg := range messages {
		total += tokensPerMessage
		total += len(enc.Encode(msg.Role, nil, nil))
		total += len(enc.Encode(msg.Content, nil, nil))
	}
	return total
}

type Budgeter struct {
	encoderFor func(model string) (Encoder, error)
	encoders   sync.Map
}

func NewBudgeter() *Budgeter {
	return &Budgeter{encoderFor: tiktokenEncoder}
}

func NewBudgeterWithEncoder(encoderFor func(model string) (Encoder, error)) *Budgeter {
	return &Budgeter{encoderFor: encoderFor}
}

// Budget returns the number of completion tokens left for model after messages,
// capped at the model's output limit. Zero means the model is unknown and no
// limit should be sent.
func (b *Budgeter) Budget(model string, messages []Message) (int, error) {
	limits, ok := LimitsFor(model)
	if !ok {
		return 0, nil
	}
	enc, err := b.encoder(model)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to load tokenizer for model %q", model)
	}
	left := limits.Context - CountMessages(enc, messages)
	if left <= 0 {
		return 0, errors.Wrapf(ErrOutOfRange, "prompt exceeds the %d token context of %q", limits.Context, model)
	}
	return min(left, limits.MaxOutput), nil
}

func (b *Budgeter) encoder(model string) (Encoder, error) {
	if enc, ok := b.encoders.Load(model); ok {
		return enc.(Encoder), nil
	}
	enc, err := b.encoderFor(model)
	if err != nil {
		return nil, err
	}
	b.encoders.Store(model, enc)
	return enc, nil
}

func tiktokenEncoder(model string) (Encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return enc, nil
	}
	enc, err = tiktoken.GetEncoding(fallbackEncoding)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s encoding", fallbackEncoding)
	}
	return enc, nil
}
