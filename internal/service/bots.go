package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/language"
	"github.com/javobly/javob/internal/telegram"
	"github.com/javobly/javob/internal/telemetry"
)

// BindingRepositoryInterface defines the repository interface for bot binding
// persistence.
type BindingRepositoryInterface interface {
	Create(ctx context.Context, b *domain.BotBinding) error
	Update(ctx context.Context, b *domain.BotBinding) error
	GetByTenant(ctx context.Context, tenantID string) (*domain.BotBinding, error)
	GetByToken(ctx context.Context, token string) (*domain.BotBinding, error)
	Delete(ctx context.Context, tenantID string) error
}

// BotProvider is the surface of the messaging provider the lifecycle needs.
type BotProvider interface {
	GetMe(ctx context.Context, token string) (*telegram.BotInfo, error)
	SetWebhook(ctx context.Context, token, callbackURL, secret string) error
	DeleteWebhook(ctx context.Context, token string) error
	SendMessage(ctx context.Context, token string, chatID int64, text string) error
}

// RotationReport records the two phases of a webhook replacement. Replacing a
// subscription against the external provider is inherently non-atomic, so
// both outcomes are surfaced instead of buried in logs.
type RotationReport struct {
	TeardownAttempted bool
	TeardownErr       error
	SetupErr          error
}

// BotService manages the tenant's Telegram bot binding and its provider-side
// webhook subscription.
type BotService struct {
	bindingRepo    BindingRepositoryInterface
	provider       BotProvider
	webhookBaseURL string
	uuidGen        UUIDGenerator
}

// NewBotService creates a BotService.
func NewBotService(bindingRepo BindingRepositoryInterface, provider BotProvider, webhookBaseURL string) *BotService {
	return &BotService{
		bindingRepo:    bindingRepo,
		provider:       provider,
		webhookBaseURL: strings.TrimRight(webhookBaseURL, "/"),
		uuidGen:        &DefaultUUIDGenerator{},
	}
}

// NewBotServiceWithUUIDGen creates a BotService with a custom UUID generator
// (for testing).
func NewBotServiceWithUUIDGen(bindingRepo BindingRepositoryInterface, provider BotProvider, webhookBaseURL string, uuidGen UUIDGenerator) *BotService {
	svc := NewBotService(bindingRepo, provider, webhookBaseURL)
	svc.uuidGen = uuidGen
	return svc
}

// Register validates the token against the provider, then creates the
// tenant's binding or rotates the existing one in place. Every create and
// every rotation gets a fresh webhook secret. The returned report carries the
// provider-side teardown/setup outcomes; setup failure does not undo the
// binding, it is surfaced for the caller to warn about.
func (s *BotService) Register(ctx context.Context, tenantID, token, lang string) (*domain.BotBinding, *RotationReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "BotService.Register", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "bot_register",
	})
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, domain.NewDomainError(domain.ErrCodeValidation, "bot token is required")
	}
	if !language.Supported(lang) {
		lang = string(language.Default)
	}

	info, err := s.provider.GetMe(ctx, token)
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "bot token rejected by provider", err)
	}

	// A bot may serve only one tenant.
	owner, err := s.bindingRepo.GetByToken(ctx, token)
	if err != nil && !errors.Is(err, domain.ErrBindingNotFound) {
		return nil, nil, err
	}
	if owner != nil && owner.TenantID != tenantID {
		return nil, nil, domain.ErrBotTokenTaken
	}

	current, err := s.bindingRepo.GetByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, domain.ErrBindingNotFound) {
		return nil, nil, err
	}

	secret, err := generateWebhookSecret()
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate webhook secret", err)
	}

	now := time.Now().UTC()
	report := &RotationReport{}

	var binding *domain.BotBinding
	if current != nil {
		// Rotation: tear down the old provider subscription before the new
		// one is established. Teardown is best-effort.
		if current.Token != token {
			report.TeardownAttempted = true
			report.TeardownErr = s.provider.DeleteWebhook(ctx, current.Token)
			if report.TeardownErr != nil {
				log.Printf("bots: webhook teardown for tenant %s failed: %v", tenantID, report.TeardownErr)
			}
		}

		current.Token = token
		current.BotUsername = info.Username
		current.WebhookURL = s.webhookURL(tenantID)
		current.WebhookSecret = secret
		current.Language = lang
		current.UpdatedAt = now

		if err := s.bindingRepo.Update(ctx, current); err != nil {
			return nil, nil, err
		}
		binding = current
	} else {
		binding = &domain.BotBinding{
			ID:            s.uuidGen.NewString(),
			TenantID:      tenantID,
			Token:         token,
			BotUsername:   info.Username,
			WebhookURL:    s.webhookURL(tenantID),
			WebhookSecret: secret,
			Language:      lang,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := domain.ValidateBotBinding(binding); err != nil {
			return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid bot binding", err)
		}
		if err := s.bindingRepo.Create(ctx, binding); err != nil {
			return nil, nil, err
		}
	}

	report.SetupErr = s.provider.SetWebhook(ctx, token, binding.WebhookURL, secret)
	if report.SetupErr != nil {
		log.Printf("bots: webhook setup for tenant %s failed: %v", tenantID, report.SetupErr)
		telemetry.CaptureError(ctx, fmt.Errorf("webhook setup failed for tenant %s: %w", tenantID, report.SetupErr))
	}

	return binding, report, nil
}

// Unregister tears down the provider subscription best-effort and deletes the
// binding.
func (s *BotService) Unregister(ctx context.Context, tenantID string) error {
	ctx, span := telemetry.StartSpan(ctx, "BotService.Unregister", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "bot_unregister",
	})
	defer span.End()

	binding, err := s.bindingRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteWebhook(ctx, binding.Token); err != nil {
		log.Printf("bots: webhook teardown for tenant %s failed: %v", tenantID, err)
	}

	return s.bindingRepo.Delete(ctx, tenantID)
}

// FindByTenant resolves the tenant's binding.
func (s *BotService) FindByTenant(ctx context.Context, tenantID string) (*domain.BotBinding, error) {
	return s.bindingRepo.GetByTenant(ctx, tenantID)
}

// Deliver sends an answer through the tenant's bot.
func (s *BotService) Deliver(ctx context.Context, binding *domain.BotBinding, chatID int64, text string) error {
	return s.provider.SendMessage(ctx, binding.Token, chatID, text)
}

func (s *BotService) webhookURL(tenantID string) string {
	return s.webhookBaseURL + "/webhook/" + tenantID
}

// generateWebhookSecret returns 256 bits of entropy, hex-encoded.
func generateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
