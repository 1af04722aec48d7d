package llm

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNoCompletion  = errors.New("response does not contain any completion")
	ErrMissingAPIKey = errors.New("openai api key is not set")
)

type ChatErrorKind int

const (
	KindRequest ChatErrorKind = iota
	KindBuildRequest
	KindNoCompletion
)

func (k ChatErrorKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindBuildRequest:
		return "build request"
	case KindNoCompletion:
		return "no completion"
	default:
		return fmt.Sprintf("ChatErrorKind(%d)", int(k))
	}
}

// ChatError is returned by AskQuestion. Err is the underlying failure as
// produced by the wrapped client library.
type ChatError struct {
	Model string
	Kind  ChatErrorKind
	Err   error
}

func (e *ChatError) Error() string {
	if e.Kind == KindBuildRequest {
		return fmt.Sprintf("error building chat request: %v", e.Err)
	}
	return fmt.Sprintf("error asking chat model %s: %v", e.Model, e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

func (e *ChatError) Cause() error { return e.Err }

type CreateClientErrorKind int

const (
	KindAPIKey CreateClientErrorKind = iota
	KindBuildClient
)

func (k CreateClientErrorKind) String() string {
	switch k {
	case KindAPIKey:
		return "api key"
	case KindBuildClient:
		return "build client"
	default:
		return fmt.Sprintf("CreateClientErrorKind(%d)", int(k))
	}
}

type CreateClientError struct {
	Timeout time.Duration
	Kind    CreateClientErrorKind
	Err     error
}

func (e *CreateClientError) Error() string {
	return fmt.Sprintf("error creating openai client with timeout %s: %v", e.Timeout, e.Err)
}

func (e *CreateClientError) Unwrap() error { return e.Err }

func (e *CreateClientError) Cause() error { return e.Err }
