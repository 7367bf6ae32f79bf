// Package ai generates context-grounded chat answers via the OpenAI API.
package ai

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/language"
)

const (
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = openai.GPT4oMini

	// requestTimeout bounds every provider call; a timeout is classified as a
	// transient failure, never left hanging.
	requestTimeout = 10 * time.Second
)

// ChatAPI is the surface of the OpenAI client the generator uses.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds generator configuration.
type Config struct {
	APIKey string
	Model  string
}

// Generator produces answers grounded in a composed context. Provider errors
// never escape it: every failure is classified and rendered as a short
// localized message, so callers always receive displayable text.
type Generator struct {
	api   ChatAPI
	model string
}

// NewGenerator creates a Generator. An empty API key yields a generator whose
// every call reports the configuration-error message.
func NewGenerator(cfg Config) *Generator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	if cfg.APIKey == "" {
		return &Generator{api: nil, model: model}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Generator{
		api:   openai.NewClientWithConfig(clientCfg),
		model: model,
	}
}

// NewGeneratorWithAPI creates a Generator over an explicit API implementation.
func NewGeneratorWithAPI(api ChatAPI, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{api: api, model: model}
}

// Respond answers question using contextText as grounding material. The
// locale is the explicit preference when supported, otherwise auto-detected
// from the question with a fallback default. The returned string is always
// non-empty and safe to show the end user.
func (g *Generator) Respond(ctx context.Context, question, contextText, preferredLang string) string {
	locale := language.Resolve(preferredLang, question)

	if g.api == nil {
		log.Printf("ai: request dropped, no api credential configured")
		return language.ConfigErrorMessage(locale)
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage(locale, contextText)},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return failureMessage(classifyProviderError(err), locale, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return failureMessage(domain.ErrProviderUnavailable, locale, errors.New("provider returned empty completion"))
	}

	return resp.Choices[0].Message.Content
}

// systemMessage assembles the locale's system instruction. The grounding
// instruction and context block are included only when there is context; an
// empty context means "no grounding available", not an error.
func systemMessage(locale language.Locale, contextText string) string {
	prompt := language.SystemPrompt(locale)
	if contextText == "" {
		return prompt
	}
	return prompt + "\n\n" + language.GroundingPrompt(locale) + "\n\nContext:\n" + contextText
}

// classifyProviderError maps a provider failure onto one of the three
// user-facing categories.
func classifyProviderError(err error) *domain.DomainError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.ErrProviderNotConfigured
		case http.StatusTooManyRequests:
			return domain.ErrProviderQuota
		}
	}
	return domain.ErrProviderUnavailable
}

func failureMessage(category *domain.DomainError, locale language.Locale, cause error) string {
	log.Printf("ai: %s: %v", category.Message, cause)

	switch category {
	case domain.ErrProviderNotConfigured:
		return language.ConfigErrorMessage(locale)
	case domain.ErrProviderQuota:
		return language.QuotaErrorMessage(locale)
	default:
		return language.GenericErrorMessage(locale)
	}
}
