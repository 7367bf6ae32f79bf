package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/javobly/javob/internal/api"
	"github.com/javobly/javob/internal/api/middleware"
	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/service"
)

type KnowledgeService interface {
	Upload(ctx context.Context, input service.UploadInput) (*domain.Artifact, error)
	Delete(ctx context.Context, tenantID string) error
	GetActive(ctx context.Context, tenantID string) (*domain.Artifact, error)
	DownloadURL(ctx context.Context, tenantID string) (string, error)
}

type KnowledgeHandler struct {
	svc KnowledgeService
	// multipart parse buffer, not the stored-file limit
	maxMemory int64
}

func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc, maxMemory: 4 << 20}
}

type ArtifactResponse struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Characters int    `json:"characters"`
	UploadedAt string `json:"uploaded_at"`
	Active     bool   `json:"active"`
}

func artifactToResponse(a *domain.Artifact) *ArtifactResponse {
	return &ArtifactResponse{
		ID:         a.ID,
		FileName:   a.FileName,
		Characters: utf8.RuneCountInString(a.Content),
		UploadedAt: a.UploadedAt.Format("2006-01-02T15:04:05Z"),
		Active:     a.Active,
	}
}

// Upload replaces the tenant's knowledge base with the uploaded document.
func (h *KnowledgeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	artifact, err := h.svc.Upload(r.Context(), service.UploadInput{
		TenantID:       tenantID,
		FileName:       header.Filename,
		Data:           data,
		AdditionalText: r.FormValue("additional_text"),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, artifactToResponse(artifact))
}

// Get returns metadata about the active knowledge artifact.
func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	artifact, err := h.svc.GetActive(r.Context(), tenantID)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if artifact == nil {
		api.Error(w, http.StatusNotFound, domain.ErrArtifactNotFound.Error())
		return
	}

	api.Success(w, http.StatusOK, artifactToResponse(artifact))
}

// Delete removes the tenant's active knowledge artifact. Idempotent.
func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.Delete(r.Context(), tenantID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Download returns a short-lived presigned URL for the original document.
func (h *KnowledgeHandler) Download(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	url, err := h.svc.DownloadURL(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			api.Error(w, http.StatusNotFound, err.Error())
			return
		}
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"url": url})
}
