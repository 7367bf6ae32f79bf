package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/javobly/javob/internal/api"
	"github.com/javobly/javob/internal/api/middleware"
	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/service"
)

type BotService interface {
	Register(ctx context.Context, tenantID, token, lang string) (*domain.BotBinding, *service.RotationReport, error)
	Unregister(ctx context.Context, tenantID string) error
	FindByTenant(ctx context.Context, tenantID string) (*domain.BotBinding, error)
}

type BotHandler struct {
	svc BotService
}

func NewBotHandler(svc BotService) *BotHandler {
	return &BotHandler{svc: svc}
}

type RegisterBotRequest struct {
	Token    string `json:"token"`
	Language string `json:"language,omitempty"`
}

type BotResponse struct {
	TenantID    string `json:"tenant_id"`
	BotUsername string `json:"bot_username"`
	WebhookURL  string `json:"webhook_url"`
	Language    string `json:"language"`
	Warning     string `json:"warning,omitempty"`
}

func bindingToResponse(b *domain.BotBinding) *BotResponse {
	return &BotResponse{
		TenantID:    b.TenantID,
		BotUsername: b.BotUsername,
		WebhookURL:  b.WebhookURL,
		Language:    b.Language,
	}
}

// Register connects a Telegram bot to the caller's tenant, or rotates the
// existing connection onto a new token.
func (h *BotHandler) Register(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RegisterBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		api.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	binding, report, err := h.svc.Register(r.Context(), tenantID, req.Token, req.Language)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := bindingToResponse(binding)
	if report != nil && report.SetupErr != nil {
		resp.Warning = "webhook registration with Telegram failed, messages will not arrive until it succeeds"
	}

	api.Success(w, http.StatusCreated, resp)
}

// Get returns the tenant's current bot binding.
func (h *BotHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	binding, err := h.svc.FindByTenant(r.Context(), tenantID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, bindingToResponse(binding))
}

// Unregister disconnects the tenant's bot and removes its Telegram webhook.
func (h *BotHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.Unregister(r.Context(), tenantID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]bool{"deleted": true})
}
