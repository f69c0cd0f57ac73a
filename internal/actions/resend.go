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

const resendAPIBase = "https://api.resend.com"

// ResendHandler sends an email through the Resend API using the user's
// stored API key.
type ResendHandler struct {
	store   CredentialStore
	client  *http.Client
	BaseURL string
}

func NewResendHandler(store CredentialStore) *ResendHandler {
	return &ResendHandler{
		store:   store,
		client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: resendAPIBase,
	}
}

type resendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendSendResponse struct {
	ID string `json:"id"`
	// set on error responses
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (h *ResendHandler) Execute(ctx context.Context, node *model.Node, userID string) Result {
	creds, err := h.store.Find(ctx, userID, model.PlatformResend)
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return Result{Success: false, Message: CredentialsNotFoundMessage}
		}
		return Result{Success: false, Message: err.Error()}
	}
	apiKey, _ := creds["apiKey"].(string)
	if apiKey == "" {
		return Result{Success: false, Message: CredentialsNotFoundMessage}
	}

	data, err := node.Data()
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("invalid node config: %v", err)}
	}
	from, _ := data["from"].(string)
	to, _ := data["to"].(string)
	subject, _ := data["subject"].(string)
	body, _ := data["body"].(string)
	if from == "" || to == "" || subject == "" {
		return Result{Success: false, Message: "resend action requires from, to and subject"}
	}

	payload, err := json.Marshal(resendSendRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	var sendResp resendSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("resend response invalid: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{Success: false, Message: sendResp.Message}
	}
	return Result{Success: true, Message: sendResp.ID}
}
