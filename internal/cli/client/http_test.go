package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "jvb_0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := NewAPIClientWithConfig(testAPIKey, server.URL)
	require.NoError(t, err)
	return api, server
}

func TestAPIClient_Get_Success(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/kb", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"data":{"file_name":"hours.txt"}}`)
	})

	resp, err := api.Get("/kb")
	require.NoError(t, err)

	var payload struct {
		FileName string `json:"file_name"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Equal(t, "hours.txt", payload.FileName)
}

func TestAPIClient_Get_APIError(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":"knowledge artifact not found"}`)
	})

	_, err := api.Get("/kb")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "knowledge artifact not found", apiErr.Message)
}

func TestAPIClient_Post_SendsJSONBody(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456:token", body["token"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"bot_username":"javob_bot"}}`)
	})

	resp, err := api.Post("/bot", map[string]string{"token": "123456:token"})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Data), "javob_bot")
}

func TestAPIClient_Delete(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		fmt.Fprintf(w, `{"data":{"deleted":true}}`)
	})

	resp, err := api.Delete("/kb")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":true}`, string(resp.Data))
}

func TestAPIClient_PostRaw_NonEnvelopeShape(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"response":"5000 so'm","success":true}`)
	})

	body, err := api.PostRaw("/chat", map[string]string{"message": "qancha turadi?"})
	require.NoError(t, err)

	var payload struct {
		Response string `json:"response"`
		Success  bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "5000 so'm", payload.Response)
	assert.True(t, payload.Success)
}

func TestAPIClient_PostRaw_EnvelopeError(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":"message cannot be empty"}`)
	})

	_, err := api.PostRaw("/chat", map[string]string{"message": ""})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "message cannot be empty", apiErr.Message)
}

func TestAPIClient_UploadDocument(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(4<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "hours.txt", header.Filename)
		assert.Equal(t, "extra notes", r.FormValue("additional_text"))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"file_name":"hours.txt","active":true}}`)
	})

	tmpFile := filepath.Join(t.TempDir(), "hours.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("Shop hours: 9-18"), 0644))

	resp, err := api.UploadDocument("/kb", tmpFile, "extra notes")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Data), "hours.txt")
}

func TestAPIClient_UploadDocument_MissingFile(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server should not be reached")
	})

	_, err := api.UploadDocument("/kb", filepath.Join(t.TempDir(), "ghost.txt"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestAPIClient_DownloadFile(t *testing.T) {
	api, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Shop hours: 9-18"))
	})

	outputPath := filepath.Join(t.TempDir(), "downloaded.txt")
	require.NoError(t, api.DownloadFile(server.URL+"/signed", outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "Shop hours: 9-18", string(content))
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv("JAVOB_API_KEY", testAPIKey)
	t.Setenv("JAVOB_API_URL", "http://env:8080")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, testAPIKey, api.apiKey)
	assert.Equal(t, "http://env:8080", api.baseURL)
}

func TestNewAPIClientWithCmd_NoCredentials(t *testing.T) {
	t.Setenv("JAVOB_API_KEY", "")
	t.Setenv("JAVOB_API_URL", "")

	configPath := filepath.Join(t.TempDir(), "config.json")
	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	_, err := NewAPIClientWithCmd(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JAVOB_API_KEY not set")
}

func TestNewAPIClientWithCmd_GlobalConfigFallback(t *testing.T) {
	t.Setenv("JAVOB_API_KEY", "")
	t.Setenv("JAVOB_API_URL", "")

	configPath := filepath.Join(t.TempDir(), "config.json")
	data, _ := json.Marshal(GlobalConfig{APIKey: testAPIKey, APIURL: "http://global:8080"})
	require.NoError(t, os.WriteFile(configPath, data, 0600))

	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, testAPIKey, api.apiKey)
	assert.Equal(t, "http://global:8080", api.baseURL)
}
