package client

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	serverURL = "http://localhost:8080"
	token     string
)

func init() {
	if envURL := os.Getenv("FLOWLINE_SERVER"); envURL != "" {
		serverURL = strings.TrimRight(envURL, "/")
	}
	if data, err := os.ReadFile(tokenPath()); err == nil {
		token = strings.TrimSpace(string(data))
	}
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".flowline_token")
}

// SaveToken persists the login token for subsequent invocations.
func SaveToken(t string) error {
	token = t
	return os.WriteFile(tokenPath(), []byte(t), 0600)
}

func SendRequest(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, serverURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func ReadResponseBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
