// Package chat relays learner questions to a hosted language model in
// Gyani's persona and falls back to canned replies when none can answer.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gyani-service/internal/llm"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
)

const (
	DefaultProvider  = llm.ProviderOpenAI
	DefaultMaxTokens = 512
	DefaultTimeout   = 20 * time.Second

	// ProviderLocal skips remote providers entirely.
	ProviderLocal = "local"
	// ProviderDemo labels replies produced by the LocalResponder.
	ProviderDemo = "demo"

	temperature = 0.7
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrInvalidRequest      = errors.New("invalid chat request")
)

// providerAliases maps request provider names to configured provider keys.
var providerAliases = map[string]string{
	llm.ProviderOpenAI:    llm.ProviderOpenAI,
	llm.ProviderGemini:    llm.ProviderGemini,
	"google":              llm.ProviderGemini,
	llm.ProviderAnthropic: llm.ProviderAnthropic,
	ProviderLocal:         ProviderLocal,
}

// Message is one turn of the conversation as sent by the client.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// Request is a chat turn to relay.
type Request struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages" validate:"required,min=1,dive"`
	MaxTokens int       `json:"maxTokens" validate:"omitempty,min=1,max=4096"`
}

// Reply is always non-empty.
type Reply struct {
	Provider string `json:"provider"`
	Reply    string `json:"reply"`
}

// Relay routes chat requests to providers.
type Relay struct {
	providers map[string]llm.Provider
	local     LocalResponder
	timeout   time.Duration
	validate  *validator.Validate
}

// Option customises a Relay.
type Option func(*Relay)

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewRelay(providers map[string]llm.Provider, opts ...Option) *Relay {
	if providers == nil {
		providers = map[string]llm.Provider{}
	}
	r := &Relay{
		providers: providers,
		timeout:   DefaultTimeout,
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers lists the configured remote providers.
func (r *Relay) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Reply answers req. Only invalid requests and unknown provider names fail;
// every upstream problem degrades to a local reply.
func (r *Relay) Reply(ctx context.Context, req Request) (Reply, error) {
	if err := r.validate.Struct(req); err != nil {
		return Reply{}, fmt.Errorf("%w: %s", ErrInvalidRequest, describe(err))
	}

	name := strings.ToLower(strings.TrimSpace(req.Provider))
	if name == "" {
		name = DefaultProvider
	}
	key, ok := providerAliases[name]
	if !ok {
		return Reply{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, req.Provider)
	}

	if key == ProviderLocal {
		return r.fallback(req), nil
	}
	provider, ok := r.providers[key]
	if !ok {
		glog.V(2).Infof("chat provider %s not configured, using local replies", key)
		return r.fallback(req), nil
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := provider.Generate(callCtx, llm.Request{
		System:      Persona,
		Messages:    toLLMMessages(req.Messages),
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		glog.Warningf("chat provider %s failed, using local replies: %v", key, err)
		return r.fallback(req), nil
	}
	if strings.TrimSpace(resp.Content) == "" {
		glog.Warningf("chat provider %s returned an empty reply, using local replies", key)
		return r.fallback(req), nil
	}
	return Reply{Provider: publicName(key), Reply: resp.Content}, nil
}

func (r *Relay) fallback(req Request) Reply {
	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	return Reply{Provider: ProviderDemo, Reply: r.local.Respond(last)}
}

// publicName keeps the reply label used by existing clients for Gemini.
func publicName(key string) string {
	if key == llm.ProviderGemini {
		return "google"
	}
	return key
}

func toLLMMessages(msgs []Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		role := llm.RoleUser
		if m.Role == string(llm.RoleAssistant) {
			role = llm.RoleAssistant
		}
		out[i] = llm.Message{Role: role, Content: m.Content}
	}
	return out
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Namespace(), ruleMessage(fe)))
	}
	return strings.Join(parts, "; ")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
