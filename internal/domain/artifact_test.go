package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact(t *testing.T) {
	now := time.Now()
	a := NewArtifact("a1", "t1", "hours.txt", "tenants/t1/a1/hours.txt", "Shop hours: 9-18", now)

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "t1", a.TenantID)
	assert.Equal(t, "hours.txt", a.FileName)
	assert.Equal(t, "tenants/t1/a1/hours.txt", a.StorageKey)
	assert.Equal(t, "Shop hours: 9-18", a.Content)
	assert.Equal(t, now, a.UploadedAt)
	assert.True(t, a.Active)
}

func TestValidateArtifact(t *testing.T) {
	valid := func() *Artifact {
		return NewArtifact("a1", "t1", "hours.txt", "key", "content", time.Now())
	}

	require.NoError(t, ValidateArtifact(valid()))

	tests := []struct {
		name   string
		mutate func(*Artifact)
		errMsg string
	}{
		{"missing ID", func(a *Artifact) { a.ID = "" }, "artifact ID is required"},
		{"missing TenantID", func(a *Artifact) { a.TenantID = "" }, "artifact TenantID is required"},
		{"missing FileName", func(a *Artifact) { a.FileName = "" }, "artifact FileName is required"},
		{"missing StorageKey", func(a *Artifact) { a.StorageKey = "" }, "artifact StorageKey is required"},
		{"missing Content", func(a *Artifact) { a.Content = "" }, "artifact Content is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(a)
			err := ValidateArtifact(a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateArtifact_Nil(t *testing.T) {
	err := ValidateArtifact(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact cannot be nil")
}
