//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"

	"github.com/javobly/javob/internal/ai"
	"github.com/javobly/javob/internal/api/handlers"
	"github.com/javobly/javob/internal/repository"
	"github.com/javobly/javob/internal/server"
	"github.com/javobly/javob/internal/service"
	"github.com/javobly/javob/internal/storage"
	"github.com/javobly/javob/internal/telegram"
	"github.com/javobly/javob/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	ChatAPI      *ScriptedChatAPI
	TelegramAPI  *FakeTelegramServer
	TenantID     string
	APIKeyToken  string
	HTTPClient   *http.Client
}

// ScriptedChatAPI is an ai.ChatAPI that returns a fixed answer and records
// every request it receives.
type ScriptedChatAPI struct {
	mu       sync.Mutex
	Answer   string
	Requests []openai.ChatCompletionRequest
}

func (s *ScriptedChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: s.Answer}},
		},
	}, nil
}

// LastSystemMessage returns the system message of the most recent request.
func (s *ScriptedChatAPI) LastSystemMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return ""
	}
	req := s.Requests[len(s.Requests)-1]
	for _, m := range req.Messages {
		if m.Role == openai.ChatMessageRoleSystem {
			return m.Content
		}
	}
	return ""
}

// RequestCount returns the number of completion calls seen so far.
func (s *ScriptedChatAPI) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// FakeTelegramServer emulates the Bot API surface the service touches:
// getMe, setWebhook, deleteWebhook and sendMessage.
type FakeTelegramServer struct {
	Server *httptest.Server

	mu           sync.Mutex
	SentMessages []SentMessage
	WebhookURLs  []string
}

// SentMessage is one recorded sendMessage call.
type SentMessage struct {
	Token  string
	ChatID int64
	Text   string
}

func NewFakeTelegramServer() *FakeTelegramServer {
	f := &FakeTelegramServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *FakeTelegramServer) handle(w http.ResponseWriter, r *http.Request) {
	// Paths look like /bot<token>/<method>.
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/bot"), "/", 2)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	token, method := parts[0], parts[1]

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		fmt.Fprintf(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Javob","username":"javob_e2e_bot"}}`)
	case "setWebhook":
		var payload struct {
			URL string `json:"url"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		f.mu.Lock()
		f.WebhookURLs = append(f.WebhookURLs, payload.URL)
		f.mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"result":true}`)
	case "deleteWebhook":
		fmt.Fprintf(w, `{"ok":true,"result":true}`)
	case "sendMessage":
		var payload struct {
			ChatID int64  `json:"chat_id"`
			Text   string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		f.mu.Lock()
		f.SentMessages = append(f.SentMessages, SentMessage{Token: token, ChatID: payload.ChatID, Text: payload.Text})
		f.mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1}}`)
	default:
		fmt.Fprintf(w, `{"ok":false,"description":"Not Found"}`)
	}
}

func (f *FakeTelegramServer) LastSentMessage() (SentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.SentMessages) == 0 {
		return SentMessage{}, false
	}
	return f.SentMessages[len(f.SentMessages)-1], true
}

func (f *FakeTelegramServer) Close() {
	f.Server.Close()
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "test-documents",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	chatAPI := &ScriptedChatAPI{Answer: "We open at 9 and close at 18."}
	telegramAPI := NewFakeTelegramServer()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, s3Client, chatAPI, telegramAPI, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		S3Client:     s3Client,
		ChatAPI:      chatAPI,
		TelegramAPI:  telegramAPI,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.TelegramAPI != nil {
		e.TelegramAPI.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Bootstrap creates a tenant and API key for testing
func (e *E2ETestEnv) Bootstrap() {
	tenantResp, err := e.Post("/tenants", map[string]string{"name": "E2E Tenant"}, "")
	if err != nil {
		e.T.Fatalf("failed to create tenant: %v", err)
	}

	var tenantData struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(tenantResp.Data, &tenantData); err != nil {
		e.T.Fatalf("failed to parse tenant response: %v", err)
	}
	e.TenantID = tenantData.ID

	keyResp, err := e.Post("/apikeys", map[string]string{
		"tenant_id": e.TenantID,
		"name":      "e2e-test-key",
	}, "")
	if err != nil {
		e.T.Fatalf("failed to create API key: %v", err)
	}

	var keyData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(keyResp.Data, &keyData); err != nil {
		e.T.Fatalf("failed to parse key response: %v", err)
	}
	e.APIKeyToken = keyData.Token
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path, authToken string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, authToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, authToken)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path, authToken string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, authToken)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, authToken string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// UploadKB uploads a document to /kb as a multipart form
func (e *E2ETestEnv) UploadKB(fileName string, content []byte, additionalText string) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if additionalText != "" {
		if err := writer.WriteField("additional_text", additionalText); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/kb", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKeyToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// Chat posts a message to /chat, which answers outside the data envelope.
func (e *E2ETestEnv) Chat(message, lang string) (string, error) {
	body := map[string]string{"message": message}
	if lang != "" {
		body["language"] = lang
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKeyToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var payload struct {
		Response string `json:"response"`
		Success  bool   `json:"success"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", err
	}
	return payload.Response, nil
}

// SendWebhookUpdate posts a Telegram update to the tenant's webhook endpoint.
func (e *E2ETestEnv) SendWebhookUpdate(secret string, chatID int64, text string) (int, string, error) {
	update := map[string]interface{}{
		"update_id": 1,
		"message": map[string]interface{}{
			"message_id": 10,
			"chat":       map[string]interface{}{"id": chatID},
			"text":       text,
		},
	}
	jsonData, err := json.Marshal(update)
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/webhook/"+e.TenantID, bytes.NewReader(jsonData))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(respBody), nil
}

// WebhookSecret reads the tenant's stored webhook secret from the database.
func (e *E2ETestEnv) WebhookSecret() string {
	var secret string
	err := e.Pool.QueryRow(e.Ctx,
		"SELECT webhook_secret FROM bot_bindings WHERE tenant_id = $1", e.TenantID,
	).Scan(&secret)
	if err != nil {
		e.T.Fatalf("failed to read webhook secret: %v", err)
	}
	return secret
}

// DownloadFile downloads a file from the presigned URL
func (e *E2ETestEnv) DownloadFile(downloadURL string) ([]byte, error) {
	resp, err := e.HTTPClient.Get(downloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// startServer starts the HTTP server with all handlers
func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, chatAPI ai.ChatAPI, telegramAPI *FakeTelegramServer, port int) (string, func()) {
	artifactRepo := repository.NewArtifactRepository(pool)
	bindingRepo := repository.NewBindingRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)
	apiKeyRepo := repository.NewAPIKeyRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	authSvc := service.NewAuthService(tenantRepo, apiKeyRepo, &service.DefaultUUIDGenerator{})
	knowledgeSvc := service.NewKnowledgeService(artifactRepo, s3Client, txRunner, 10*1024*1024)
	composer := service.NewComposer(3000)
	transcript := service.NewTranscriptLog(20)
	generator := ai.NewGeneratorWithAPI(chatAPI, "")
	chatSvc := service.NewChatService(knowledgeSvc, composer, generator, transcript)

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	botSvc := service.NewBotService(bindingRepo, telegram.NewClientWithBaseURL(telegramAPI.Server.URL), serverURL)

	cfg := server.RouterConfig{
		AuthValidator:    authSvc,
		KnowledgeHandler: handlers.NewKnowledgeHandler(knowledgeSvc),
		ChatHandler:      handlers.NewChatHandler(chatSvc),
		BotHandler:       handlers.NewBotHandler(botSvc),
		WebhookHandler:   handlers.NewWebhookHandler(botSvc, chatSvc),
		AuthHandler:      handlers.NewAuthHandler(authSvc),
	}

	router := server.NewRouter(cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
