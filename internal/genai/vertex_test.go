package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

func TestVertexClientGenerateContent(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":"},{"text":"true}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	cfg := config.GenAIConfig{
		ProjectID:       "demo",
		Location:        "us-central1",
		Model:           "gemini-1.5-pro",
		Temperature:     0.7,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
	client, err := NewVertexClient(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	text, err := client.GenerateContent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.True(t, strings.HasSuffix(gotPath, "projects/demo/locations/us-central1/publishers/google/models/gemini-1.5-pro:generateContent"), gotPath)
	genCfg := gotBody["generationConfig"].(map[string]any)
	assert.EqualValues(t, 40, genCfg["topK"])
	assert.EqualValues(t, 0.7, genCfg["temperature"])
}

func TestVertexClientNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client, err := NewVertexClient(context.Background(), config.GenAIConfig{ProjectID: "p", Location: "l", Model: "m"},
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "hello")
	assert.Error(t, err)
}
