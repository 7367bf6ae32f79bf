package domain

import (
	"fmt"
	"time"
)

// BotBinding links a tenant to its external Telegram bot: the provider token,
// the registered webhook callback and its shared secret, and the language the
// bot answers in. A tenant has at most one binding; a token belongs to at most
// one tenant.
type BotBinding struct {
	ID            string
	TenantID      string
	Token         string
	BotUsername   string
	WebhookURL    string
	WebhookSecret string
	Language      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateBotBinding validates a BotBinding instance
func ValidateBotBinding(b *BotBinding) error {
	if b == nil {
		return fmt.Errorf("bot binding cannot be nil")
	}

	if b.ID == "" {
		return fmt.Errorf("bot binding ID is required")
	}

	if b.TenantID == "" {
		return fmt.Errorf("bot binding TenantID is required")
	}

	if b.Token == "" {
		return fmt.Errorf("bot binding Token is required")
	}

	if b.WebhookURL == "" {
		return fmt.Errorf("bot binding WebhookURL is required")
	}

	return nil
}

// VerificationRequired reports whether inbound webhook calls must present the
// shared secret. Bindings created before secrets existed have none and are
// accepted without verification.
func (b *BotBinding) VerificationRequired() bool {
	return b.WebhookSecret != ""
}
