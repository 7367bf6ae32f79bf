package service

import (
	"context"
	"strings"

	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/telemetry"
)

// Responder turns a question plus composed context into displayable answer
// text. It never fails; provider errors come back as localized messages.
type Responder interface {
	Respond(ctx context.Context, question, contextText, preferredLang string) string
}

// ActiveArtifactSource yields the tenant's current knowledge artifact.
type ActiveArtifactSource interface {
	GetActive(ctx context.Context, tenantID string) (*domain.Artifact, error)
}

// ChatService runs the shared question-answering pipeline for both channel
// adapters and keeps the web channel's bounded transcript.
type ChatService struct {
	artifacts  ActiveArtifactSource
	composer   *Composer
	responder  Responder
	transcript *TranscriptLog
}

// NewChatService creates a ChatService.
func NewChatService(artifacts ActiveArtifactSource, composer *Composer, responder Responder, transcript *TranscriptLog) *ChatService {
	return &ChatService{
		artifacts:  artifacts,
		composer:   composer,
		responder:  responder,
		transcript: transcript,
	}
}

// AnswerFor runs the core pipeline: active artifact → composed context →
// generated answer. Used by both the web chat and the Telegram webhook.
func (s *ChatService) AnswerFor(ctx context.Context, tenantID, question, preferredLang string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.AnswerFor", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "answer",
	})
	defer span.End()

	artifact, err := s.artifacts.GetActive(ctx, tenantID)
	if err != nil {
		return "", err
	}

	contextText := s.composer.Compose(artifact)
	return s.responder.Respond(ctx, question, contextText, preferredLang), nil
}

// Send handles one authenticated web-chat message: it rejects blank input
// before the pipeline runs, then records the exchange in the transcript.
func (s *ChatService) Send(ctx context.Context, tenantID, message, preferredLang string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrEmptyMessage
	}

	answer, err := s.AnswerFor(ctx, tenantID, message, preferredLang)
	if err != nil {
		return "", err
	}

	s.transcript.Append(tenantID, message, answer)
	return answer, nil
}

// History returns the tenant's transcript, oldest exchange first.
func (s *ChatService) History(tenantID string) []domain.ChatExchange {
	return s.transcript.History(tenantID)
}

// ClearHistory drops the tenant's transcript.
func (s *ChatService) ClearHistory(tenantID string) {
	s.transcript.Clear(tenantID)
}
