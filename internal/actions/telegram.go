package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flowline/internal/server/model"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramHandler sends a message through the Telegram Bot API using the
// user's stored bot token.
type TelegramHandler struct {
	store   CredentialStore
	client  *http.Client
	BaseURL string
}

func NewTelegramHandler(store CredentialStore) *TelegramHandler {
	return &TelegramHandler{
		store:   store,
		client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: telegramAPIBase,
	}
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (h *TelegramHandler) Execute(ctx context.Context, node *model.Node, userID string) Result {
	creds, err := h.store.Find(ctx, userID, model.PlatformTelegram)
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return Result{Success: false, Message: CredentialsNotFoundMessage}
		}
		return Result{Success: false, Message: err.Error()}
	}
	botToken, _ := creds["botToken"].(string)
	if botToken == "" {
		return Result{Success: false, Message: CredentialsNotFoundMessage}
	}

	data, err := node.Data()
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("invalid node config: %v", err)}
	}
	chatID, _ := data["chatId"].(string)
	message, _ := data["message"].(string)
	if chatID == "" || message == "" {
		return Result{Success: false, Message: "telegram action requires chatId and message"}
	}

	body, err := json.Marshal(telegramSendRequest{ChatID: chatID, Text: message})
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", h.BaseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	var sendResp telegramSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("telegram response invalid: %v", err)}
	}
	if !sendResp.OK {
		// pass the API's error text through verbatim
		return Result{Success: false, Message: sendResp.Description}
	}
	return Result{Success: true, Message: fmt.Sprintf("message %d sent", sendResp.Result.MessageID)}
}
