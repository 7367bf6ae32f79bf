//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeChatFlow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Bootstrap()

	// Upload a plain-text knowledge base.
	uploadResp, err := env.UploadKB("hours.txt", []byte("Shop hours: 9-18\nAddress: Tashkent, Amir Temur 15"), "We close on Sundays")
	require.NoError(t, err)

	var artifact struct {
		ID         string `json:"id"`
		FileName   string `json:"file_name"`
		Characters int    `json:"characters"`
		Active     bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(uploadResp.Data, &artifact))
	assert.Equal(t, "hours.txt", artifact.FileName)
	assert.True(t, artifact.Active)
	assert.Greater(t, artifact.Characters, 0)

	// The active artifact is visible.
	getResp, err := env.Get("/kb", env.APIKeyToken)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(getResp.Data, &artifact))
	assert.Equal(t, "hours.txt", artifact.FileName)

	// Ask a question; the fake provider records the grounding it was given.
	answer, err := env.Chat("When are you open?", "en")
	require.NoError(t, err)
	assert.Equal(t, "We open at 9 and close at 18.", answer)

	systemMsg := env.ChatAPI.LastSystemMessage()
	assert.Contains(t, systemMsg, "Shop hours: 9-18")
	assert.Contains(t, systemMsg, "We close on Sundays")

	// The exchange landed in the transcript.
	histResp, err := env.Get("/chat/history", env.APIKeyToken)
	require.NoError(t, err)

	var history []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(histResp.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "When are you open?", history[0].Question)
	assert.Equal(t, "We open at 9 and close at 18.", history[0].Answer)

	// Clearing the transcript empties it.
	_, err = env.Delete("/chat/history", env.APIKeyToken)
	require.NoError(t, err)

	histResp, err = env.Get("/chat/history", env.APIKeyToken)
	require.NoError(t, err)
	history = nil
	require.NoError(t, json.Unmarshal(histResp.Data, &history))
	assert.Empty(t, history)
}

func TestKnowledgeReplaceAndDelete(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Bootstrap()

	_, err := env.UploadKB("old.txt", []byte("Old menu: plov only"), "")
	require.NoError(t, err)

	// A second upload replaces the first.
	_, err = env.UploadKB("new.txt", []byte("New menu: plov, lagman, samsa"), "")
	require.NoError(t, err)

	getResp, err := env.Get("/kb", env.APIKeyToken)
	require.NoError(t, err)

	var artifact struct {
		FileName string `json:"file_name"`
	}
	require.NoError(t, json.Unmarshal(getResp.Data, &artifact))
	assert.Equal(t, "new.txt", artifact.FileName)

	// The chat grounds on the replacement, not the original.
	_, err = env.Chat("What is on the menu?", "en")
	require.NoError(t, err)
	systemMsg := env.ChatAPI.LastSystemMessage()
	assert.Contains(t, systemMsg, "lagman")
	assert.NotContains(t, systemMsg, "plov only")

	// Delete and confirm 404 on the metadata endpoint.
	_, err = env.Delete("/kb", env.APIKeyToken)
	require.NoError(t, err)

	_, err = env.Get("/kb", env.APIKeyToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	// Chat still answers; the grounding context is simply absent.
	_, err = env.Chat("What is on the menu?", "en")
	require.NoError(t, err)
	assert.NotContains(t, env.ChatAPI.LastSystemMessage(), "Context:")
}

func TestKnowledgeDownload(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Bootstrap()

	original := []byte("Shop hours: 9-18")
	_, err := env.UploadKB("hours.txt", original, "")
	require.NoError(t, err)

	dlResp, err := env.Get("/kb/download", env.APIKeyToken)
	require.NoError(t, err)

	var payload struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(dlResp.Data, &payload))
	require.NotEmpty(t, payload.URL)

	downloaded, err := env.DownloadFile(payload.URL)
	require.NoError(t, err)
	assert.Equal(t, original, downloaded)
}

func TestTelegramBotFlow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Bootstrap()

	_, err := env.UploadKB("hours.txt", []byte("Shop hours: 9-18"), "")
	require.NoError(t, err)

	// Connect a bot; the fake Bot API accepts any token.
	botResp, err := env.Post("/bot", map[string]string{"token": "123456:e2e-token", "language": "en"}, env.APIKeyToken)
	require.NoError(t, err)

	var bot struct {
		BotUsername string `json:"bot_username"`
		WebhookURL  string `json:"webhook_url"`
		Language    string `json:"language"`
	}
	require.NoError(t, json.Unmarshal(botResp.Data, &bot))
	assert.Equal(t, "javob_e2e_bot", bot.BotUsername)
	assert.True(t, strings.HasSuffix(bot.WebhookURL, "/webhook/"+env.TenantID))
	assert.Equal(t, "en", bot.Language)

	// Registration pointed Telegram at our webhook endpoint.
	require.NotEmpty(t, env.TelegramAPI.WebhookURLs)
	assert.Equal(t, bot.WebhookURL, env.TelegramAPI.WebhookURLs[len(env.TelegramAPI.WebhookURLs)-1])

	secret := env.WebhookSecret()
	require.NotEmpty(t, secret)

	// A wrong secret is rejected.
	status, _, err := env.SendWebhookUpdate("wrong-secret", 42, "When are you open?")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)

	// The real secret flows through to a delivered answer.
	status, body, err := env.SendWebhookUpdate(secret, 42, "When are you open?")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, body)

	sent, ok := env.TelegramAPI.LastSentMessage()
	require.True(t, ok)
	assert.Equal(t, int64(42), sent.ChatID)
	assert.Equal(t, "We open at 9 and close at 18.", sent.Text)
	assert.Contains(t, env.ChatAPI.LastSystemMessage(), "Shop hours: 9-18")

	// Webhook exchanges stay out of the web transcript.
	histResp, err := env.Get("/chat/history", env.APIKeyToken)
	require.NoError(t, err)
	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(histResp.Data, &history))
	assert.Empty(t, history)

	// Disconnect removes the binding; the webhook endpoint goes dark.
	_, err = env.Delete("/bot", env.APIKeyToken)
	require.NoError(t, err)

	status, _, err = env.SendWebhookUpdate(secret, 42, "Anyone there?")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthRejections(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Bootstrap()

	// No key at all.
	_, err := env.Get("/kb", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	// A syntactically valid but unknown key.
	_, err = env.Get("/kb", "jvb_0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	// The real key works.
	_, err = env.UploadKB("hours.txt", []byte("Shop hours: 9-18"), "")
	require.NoError(t, err)
	_, err = env.Get("/kb", env.APIKeyToken)
	require.NoError(t, err)
}
