package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/javobly/javob/internal/api"
	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/telegram"
	"github.com/javobly/javob/internal/telemetry"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type BotResolver interface {
	FindByTenant(ctx context.Context, tenantID string) (*domain.BotBinding, error)
	Deliver(ctx context.Context, binding *domain.BotBinding, chatID int64, text string) error
}

type Answerer interface {
	AnswerFor(ctx context.Context, tenantID, question, preferredLang string) (string, error)
}

type WebhookHandler struct {
	bots BotResolver
	chat Answerer
}

func NewWebhookHandler(bots BotResolver, chat Answerer) *WebhookHandler {
	return &WebhookHandler{bots: bots, chat: chat}
}

// Receive handles Telegram webhook callbacks for one tenant.
//
// Telegram retries any non-2xx response, so once the caller is authenticated
// every outcome answers 200: processing failures are logged and swallowed
// rather than queued for redelivery.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	binding, err := h.bots.FindByTenant(r.Context(), tenantID)
	if err != nil {
		api.Error(w, http.StatusNotFound, "unknown webhook endpoint")
		return
	}

	if binding.VerificationRequired() {
		got := r.Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(binding.WebhookSecret)) != 1 {
			log.Printf("webhook_secret_mismatch tenant_id=%s", tenantID)
			api.Error(w, http.StatusForbidden, domain.ErrWebhookSecretMismatch.Error())
			return
		}
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		// Malformed payload from an authenticated caller, drop it.
		log.Printf("webhook_decode_error tenant_id=%s: %v", tenantID, err)
		api.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	chatID, text, ok := update.TextMessage()
	if !ok {
		api.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	answer, err := h.chat.AnswerFor(r.Context(), tenantID, text, binding.Language)
	if err != nil {
		log.Printf("webhook_answer_error tenant_id=%s: %v", tenantID, err)
		api.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	if err := h.bots.Deliver(r.Context(), binding, chatID, answer); err != nil {
		log.Printf("webhook_delivery_error tenant_id=%s chat_id=%d: %v", tenantID, chatID, err)
		telemetry.CaptureError(r.Context(), fmt.Errorf("webhook delivery failed for tenant %s: %w", tenantID, err))
	}

	api.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
