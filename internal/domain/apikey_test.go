package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKey_IsRevoked(t *testing.T) {
	key := &APIKey{ID: "k1", TenantID: "t1", Name: "prod", KeyHash: "hash"}
	assert.False(t, key.IsRevoked())

	now := time.Now()
	key.RevokedAt = &now
	assert.True(t, key.IsRevoked())
}

func TestValidateAPIKey(t *testing.T) {
	valid := func() *APIKey {
		return &APIKey{ID: "k1", TenantID: "t1", Name: "prod", KeyHash: "hash", CreatedAt: time.Now()}
	}

	require.NoError(t, ValidateAPIKey(valid()))

	tests := []struct {
		name   string
		mutate func(*APIKey)
		errMsg string
	}{
		{"missing ID", func(k *APIKey) { k.ID = "" }, "api key ID is required"},
		{"missing TenantID", func(k *APIKey) { k.TenantID = "" }, "api key TenantID is required"},
		{"missing Name", func(k *APIKey) { k.Name = "" }, "api key Name is required"},
		{"missing KeyHash", func(k *APIKey) { k.KeyHash = "" }, "api key KeyHash is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := valid()
			tt.mutate(k)
			err := ValidateAPIKey(k)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateAPIKey_Nil(t *testing.T) {
	err := ValidateAPIKey(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key cannot be nil")
}
