package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flowline/internal/server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]map[string]any

func (s mapStore) Find(_ context.Context, _ string, platform string) (map[string]any, error) {
	creds, ok := s[platform]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return creds, nil
}

func telegramNode(config string) *model.Node {
	return &model.Node{
		ID:             "n1",
		Kind:           model.NodeKindAction,
		ActionPlatform: model.PlatformTelegram,
		Config:         config,
	}
}

func TestTelegramSendsMessage(t *testing.T) {
	var gotPath string
	var gotBody telegramSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 42},
		})
	}))
	defer srv.Close()

	h := NewTelegramHandler(mapStore{model.PlatformTelegram: {"botToken": "abc123"}})
	h.BaseURL = srv.URL

	res := h.Execute(context.Background(), telegramNode(`{"chatId":"777","message":"hi"}`), "user-1")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "message 42 sent", res.Message)
	assert.Equal(t, "/botabc123/sendMessage", gotPath)
	assert.Equal(t, "777", gotBody.ChatID)
	assert.Equal(t, "hi", gotBody.Text)
}

func TestTelegramMissingCredentials(t *testing.T) {
	h := NewTelegramHandler(mapStore{})
	res := h.Execute(context.Background(), telegramNode(`{"chatId":"777","message":"hi"}`), "user-1")
	assert.False(t, res.Success)
	assert.Equal(t, "Credentials Not Found!", res.Message)
}

func TestTelegramEmptyTokenTreatedAsMissing(t *testing.T) {
	h := NewTelegramHandler(mapStore{model.PlatformTelegram: {"botToken": ""}})
	res := h.Execute(context.Background(), telegramNode(`{"chatId":"777","message":"hi"}`), "user-1")
	assert.False(t, res.Success)
	assert.Equal(t, CredentialsNotFoundMessage, res.Message)
}

func TestTelegramAPIErrorPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	}))
	defer srv.Close()

	h := NewTelegramHandler(mapStore{model.PlatformTelegram: {"botToken": "abc123"}})
	h.BaseURL = srv.URL

	res := h.Execute(context.Background(), telegramNode(`{"chatId":"777","message":"hi"}`), "user-1")
	assert.False(t, res.Success)
	assert.Equal(t, "Bad Request: chat not found", res.Message)
}

func TestTelegramRejectsIncompleteConfig(t *testing.T) {
	h := NewTelegramHandler(mapStore{model.PlatformTelegram: {"botToken": "abc123"}})
	res := h.Execute(context.Background(), telegramNode(`{"chatId":"777"}`), "user-1")
	assert.False(t, res.Success)
	assert.Equal(t, "telegram action requires chatId and message", res.Message)
}

func TestTelegramRejectsMalformedConfig(t *testing.T) {
	h := NewTelegramHandler(mapStore{model.PlatformTelegram: {"botToken": "abc123"}})
	res := h.Execute(context.Background(), telegramNode(`{not json`), "user-1")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "invalid node config")
}
