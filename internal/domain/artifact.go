package domain

import (
	"fmt"
	"time"
)

// Artifact is a tenant's knowledge artifact: the normalized text extracted
// from one uploaded document, plus the storage location of the source file.
// At most one artifact per tenant is active at any time.
type Artifact struct {
	ID         string
	TenantID   string
	FileName   string
	StorageKey string
	Content    string
	UploadedAt time.Time
	Active     bool
}

// NewArtifact creates a new Artifact instance
func NewArtifact(id, tenantID, fileName, storageKey, content string, uploadedAt time.Time) *Artifact {
	return &Artifact{
		ID:         id,
		TenantID:   tenantID,
		FileName:   fileName,
		StorageKey: storageKey,
		Content:    content,
		UploadedAt: uploadedAt,
		Active:     true,
	}
}

// ValidateArtifact validates an Artifact instance
func ValidateArtifact(a *Artifact) error {
	if a == nil {
		return fmt.Errorf("artifact cannot be nil")
	}

	if a.ID == "" {
		return fmt.Errorf("artifact ID is required")
	}

	if a.TenantID == "" {
		return fmt.Errorf("artifact TenantID is required")
	}

	if a.FileName == "" {
		return fmt.Errorf("artifact FileName is required")
	}

	if a.StorageKey == "" {
		return fmt.Errorf("artifact StorageKey is required")
	}

	if a.Content == "" {
		return fmt.Errorf("artifact Content is required")
	}

	return nil
}
