package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBotBinding(t *testing.T) {
	valid := func() *BotBinding {
		return &BotBinding{
			ID:         "b1",
			TenantID:   "t1",
			Token:      "123456:token",
			WebhookURL: "https://bot.example.com/webhook/t1",
		}
	}

	require.NoError(t, ValidateBotBinding(valid()))

	tests := []struct {
		name   string
		mutate func(*BotBinding)
		errMsg string
	}{
		{"missing ID", func(b *BotBinding) { b.ID = "" }, "bot binding ID is required"},
		{"missing TenantID", func(b *BotBinding) { b.TenantID = "" }, "bot binding TenantID is required"},
		{"missing Token", func(b *BotBinding) { b.Token = "" }, "bot binding Token is required"},
		{"missing WebhookURL", func(b *BotBinding) { b.WebhookURL = "" }, "bot binding WebhookURL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(b)
			err := ValidateBotBinding(b)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateBotBinding_Nil(t *testing.T) {
	err := ValidateBotBinding(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot binding cannot be nil")
}

func TestBotBinding_VerificationRequired(t *testing.T) {
	b := &BotBinding{WebhookSecret: "s3cret"}
	assert.True(t, b.VerificationRequired())

	// Bindings from before secrets existed carry none.
	b.WebhookSecret = ""
	assert.False(t, b.VerificationRequired())
}
