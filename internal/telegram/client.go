// Package telegram is a minimal Telegram Bot API client covering the calls
// the webhook lifecycle and message delivery need: getMe, sendMessage,
// setWebhook and deleteWebhook. Every call carries a fixed short timeout.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	callTimeout    = 10 * time.Second
)

// BotInfo is the identity returned by getMe.
type BotInfo struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// apiResponse is the provider's uniform envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// Client calls the Telegram Bot API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against the public Bot API.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a Client against an explicit API origin.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: callTimeout},
	}
}

// GetMe validates a bot token by resolving its bot identity.
func (c *Client) GetMe(ctx context.Context, token string) (*BotInfo, error) {
	var info BotInfo
	if err := c.call(ctx, token, "getMe", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SendMessage delivers text to a chat on behalf of the bot.
func (c *Client) SendMessage(ctx context.Context, token string, chatID int64, text string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	return c.call(ctx, token, "sendMessage", payload, nil)
}

// SetWebhook registers the callback URL for the bot, with the shared secret
// the provider will echo back in X-Telegram-Bot-Api-Secret-Token.
func (c *Client) SetWebhook(ctx context.Context, token, callbackURL, secret string) error {
	payload := map[string]interface{}{
		"url": callbackURL,
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, token, "setWebhook", payload, nil)
}

// DeleteWebhook removes the bot's webhook subscription.
func (c *Client) DeleteWebhook(ctx context.Context, token string) error {
	return c.call(ctx, token, "deleteWebhook", map[string]interface{}{}, nil)
}

func (c *Client) call(ctx context.Context, token, method string, payload interface{}, result interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)

	var body *bytes.Reader
	httpMethod := http.MethodGet
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", method, err)
		}
		body = bytes.NewReader(encoded)
		httpMethod = http.MethodPost
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, url, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if !envelope.OK {
		desc := envelope.Description
		if desc == "" {
			desc = fmt.Sprintf("http status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s rejected: %s", method, desc)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}
