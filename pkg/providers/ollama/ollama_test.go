package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIEndpoint = srv.URL
	return New(cfg)
}

func TestTranslateChatRequest(t *testing.T) {
	var gotReq chatRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:   "llama3",
			Message: chatMessage{Role: "assistant", Content: "<response></response>"},
		})
	})

	resp, err := p.Translate(context.Background(), &providers.Request{
		Payload:        "<request><item>hi</item></request>",
		TargetLanguage: "zh",
	})
	require.NoError(t, err)

	assert.Equal(t, "llama3", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "<request><item>hi</item></request>", gotReq.Messages[1].Content)

	assert.Equal(t, "<response></response>", resp.Payload)
	assert.Equal(t, "llama3", resp.Model)
}

func TestTranslateModelNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	})

	_, err := p.Translate(context.Background(), &providers.Request{
		Payload:        "x",
		TargetLanguage: "zh",
	})
	require.Error(t, err)

	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, providers.CodeBadResponse, perr.Code)
}

func TestGetModels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"qwen2"}]}`))
	})

	models, err := p.GetModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "qwen2"}, models)
}

func TestGetName(t *testing.T) {
	assert.Equal(t, "ollama", New(DefaultConfig()).GetName())
}
