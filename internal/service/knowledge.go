package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javobly/javob/internal/domain"
	"github.com/javobly/javob/internal/extract"
	"github.com/javobly/javob/internal/telemetry"
)

// supplementHeading delimits tenant-supplied free text appended after the
// extracted document content.
const supplementHeading = "Additional information:"

// ArtifactRepositoryInterface defines the repository interface for knowledge
// artifact persistence.
type ArtifactRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Artifact) error
	GetActiveByTenant(ctx context.Context, tenantID string) (*domain.Artifact, error)
	DeleteByID(ctx context.Context, id string) error
	// LockTenant serializes concurrent writers for one tenant. It is only
	// meaningful inside a transaction.
	LockTenant(ctx context.Context, tenantID string) error
}

// StorageClientInterface is the blob store holding the uploaded source files.
type StorageClientInterface interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// Extractor converts file bytes into normalized text.
type Extractor func(data []byte, filename string) (string, error)

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// KnowledgeService owns the knowledge artifact lifecycle: validating and
// storing an upload, extracting its text, and atomically replacing the
// tenant's previously active artifact.
type KnowledgeService struct {
	artifactRepo   ArtifactRepositoryInterface
	storageClient  StorageClientInterface
	txRunner       TxRunner
	extractor      Extractor
	maxUploadBytes int64
	uuidGen        UUIDGenerator
}

// NewKnowledgeService creates a KnowledgeService using the default extractor.
func NewKnowledgeService(
	artifactRepo ArtifactRepositoryInterface,
	storageClient StorageClientInterface,
	txRunner TxRunner,
	maxUploadBytes int64,
) *KnowledgeService {
	return &KnowledgeService{
		artifactRepo:   artifactRepo,
		storageClient:  storageClient,
		txRunner:       txRunner,
		extractor:      extract.Extract,
		maxUploadBytes: maxUploadBytes,
		uuidGen:        &DefaultUUIDGenerator{},
	}
}

// NewKnowledgeServiceWithDeps creates a KnowledgeService with explicit
// extractor and UUID generator (for testing).
func NewKnowledgeServiceWithDeps(
	artifactRepo ArtifactRepositoryInterface,
	storageClient StorageClientInterface,
	txRunner TxRunner,
	maxUploadBytes int64,
	extractor Extractor,
	uuidGen UUIDGenerator,
) *KnowledgeService {
	return &KnowledgeService{
		artifactRepo:   artifactRepo,
		storageClient:  storageClient,
		txRunner:       txRunner,
		extractor:      extractor,
		maxUploadBytes: maxUploadBytes,
		uuidGen:        uuidGen,
	}
}

// UploadInput represents one document upload.
type UploadInput struct {
	TenantID       string
	FileName       string
	Data           []byte
	AdditionalText string
}

// Upload validates, stores and extracts a document, then atomically replaces
// the tenant's active artifact. Any failure after the bytes were written
// removes them again; a failed upload never leaves a stored file or an
// artifact row behind, and the previously active artifact stays untouched.
func (s *KnowledgeService) Upload(ctx context.Context, input UploadInput) (*domain.Artifact, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Upload", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "upload",
	})
	defer span.End()

	if input.TenantID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID is required")
	}
	if !extract.Supported(input.FileName) {
		return nil, domain.ErrUnsupportedFormat
	}

	artifactID := s.uuidGen.NewString()
	storageKey := buildStorageKey(input.TenantID, artifactID, input.FileName)

	if err := s.storageClient.PutObject(ctx, storageKey, input.Data, contentTypeFor(input.FileName)); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to store uploaded file", err)
	}

	if int64(len(input.Data)) > s.maxUploadBytes {
		s.discardObject(ctx, storageKey)
		return nil, domain.ErrFileTooLarge
	}

	content, err := s.extractor(input.Data, input.FileName)
	if err != nil {
		s.discardObject(ctx, storageKey)
		return nil, err
	}

	if supplement := strings.TrimSpace(input.AdditionalText); supplement != "" {
		content = content + "\n\n" + supplementHeading + "\n" + supplement
	}

	artifact := domain.NewArtifact(artifactID, input.TenantID, input.FileName, storageKey, content, time.Now().UTC())
	if err := domain.ValidateArtifact(artifact); err != nil {
		s.discardObject(ctx, storageKey)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid artifact", err)
	}

	// Replace the previous active artifact in one transaction, serialized
	// per tenant so concurrent uploads cannot leave two actives or none.
	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		artifacts := repos.Artifacts()

		if err := artifacts.LockTenant(ctx, input.TenantID); err != nil {
			return fmt.Errorf("failed to lock tenant: %w", err)
		}

		previous, err := artifacts.GetActiveByTenant(ctx, input.TenantID)
		if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
			return err
		}
		if previous != nil {
			s.discardObject(ctx, previous.StorageKey)
			if err := artifacts.DeleteByID(ctx, previous.ID); err != nil {
				return fmt.Errorf("failed to remove previous artifact: %w", err)
			}
		}

		return artifacts.Create(ctx, artifact)
	})
	if err != nil {
		s.discardObject(ctx, storageKey)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to save artifact", err)
	}

	return artifact, nil
}

// Delete removes the tenant's active artifact: its backing file best-effort,
// its row for good. Deleting when none exists is a no-op.
func (s *KnowledgeService) Delete(ctx context.Context, tenantID string) error {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Delete", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "delete",
	})
	defer span.End()

	return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		artifacts := repos.Artifacts()

		if err := artifacts.LockTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("failed to lock tenant: %w", err)
		}

		artifact, err := artifacts.GetActiveByTenant(ctx, tenantID)
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		s.discardObject(ctx, artifact.StorageKey)
		return artifacts.DeleteByID(ctx, artifact.ID)
	})
}

// GetActive returns the tenant's active artifact, or nil when none exists.
func (s *KnowledgeService) GetActive(ctx context.Context, tenantID string) (*domain.Artifact, error) {
	artifact, err := s.artifactRepo.GetActiveByTenant(ctx, tenantID)
	if errors.Is(err, domain.ErrArtifactNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

// DownloadURL returns a presigned URL for the active artifact's source file.
func (s *KnowledgeService) DownloadURL(ctx context.Context, tenantID string) (string, error) {
	artifact, err := s.GetActive(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if artifact == nil {
		return "", domain.ErrArtifactNotFound
	}
	return s.storageClient.GenerateDownloadURL(ctx, artifact.StorageKey)
}

// discardObject deletes stored bytes best-effort. A missing object is not an
// error; anything else is logged and forgotten.
func (s *KnowledgeService) discardObject(ctx context.Context, key string) {
	if err := s.storageClient.DeleteObject(ctx, key); err != nil {
		log.Printf("knowledge: failed to discard object %s: %v", key, err)
	}
}

func buildStorageKey(tenantID, artifactID, filename string) string {
	return fmt.Sprintf("tenants/%s/%s/%s", tenantID, artifactID, filepath.Base(filename))
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
