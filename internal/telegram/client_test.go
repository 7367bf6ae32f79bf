package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"Shop","username":"shop_bot"}}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	info, err := c.GetMe(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Equal(t, "/bottok123/getMe", gotPath)
	assert.Equal(t, "shop_bot", info.Username)
	assert.True(t, info.IsBot)
}

func TestGetMe_BadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	_, err := c.GetMe(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendMessage(t *testing.T) {
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottok/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	err := c.SendMessage(context.Background(), "tok", 42, "hello")
	require.NoError(t, err)

	assert.Equal(t, float64(42), gotPayload["chat_id"])
	assert.Equal(t, "hello", gotPayload["text"])
}

func TestSetWebhook_IncludesSecretToken(t *testing.T) {
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	err := c.SetWebhook(context.Background(), "tok", "https://example.com/webhook/t1", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/webhook/t1", gotPayload["url"])
	assert.Equal(t, "s3cret", gotPayload["secret_token"])
}

func TestSetWebhook_NoSecretOmitsField(t *testing.T) {
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	err := c.SetWebhook(context.Background(), "tok", "https://example.com/webhook/t1", "")
	require.NoError(t, err)

	_, present := gotPayload["secret_token"]
	assert.False(t, present)
}

func TestDeleteWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottok/deleteWebhook", r.URL.Path)
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	assert.NoError(t, c.DeleteWebhook(context.Background(), "tok"))
}

func TestUpdate_TextMessage(t *testing.T) {
	update := Update{Message: &Message{Chat: Chat{ID: 99}, Text: "hi"}}
	chatID, text, ok := update.TextMessage()
	assert.True(t, ok)
	assert.Equal(t, int64(99), chatID)
	assert.Equal(t, "hi", text)
}

func TestUpdate_NoMessage(t *testing.T) {
	update := Update{}
	_, _, ok := update.TextMessage()
	assert.False(t, ok)
}

func TestUpdate_NonTextMessage(t *testing.T) {
	update := Update{Message: &Message{Chat: Chat{ID: 99}}}
	_, _, ok := update.TextMessage()
	assert.False(t, ok)
}
