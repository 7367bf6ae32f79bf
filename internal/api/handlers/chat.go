package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/javobly/javob/internal/api"
	"github.com/javobly/javob/internal/api/middleware"
	"github.com/javobly/javob/internal/domain"
)

type ChatService interface {
	Send(ctx context.Context, tenantID, message, preferredLang string) (string, error)
	History(tenantID string) []domain.ChatExchange
	ClearHistory(tenantID string)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

type ExchangeResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	At       string `json:"at"`
}

// Send answers a question against the tenant's knowledge base.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.svc.Send(r.Context(), tenantID, req.Message, req.Language)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, ChatResponse{Response: answer, Success: true})
}

// History returns the recent exchanges for the caller's tenant.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	exchanges := h.svc.History(tenantID)
	out := make([]ExchangeResponse, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, ExchangeResponse{
			Question: e.Question,
			Answer:   e.Answer,
			At:       e.At.Format("2006-01-02T15:04:05Z"),
		})
	}

	api.Success(w, http.StatusOK, out)
}

// ClearHistory drops the tenant's recent exchanges.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.svc.ClearHistory(tenantID)
	api.Success(w, http.StatusOK, map[string]bool{"cleared": true})
}
