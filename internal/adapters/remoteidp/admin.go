package remoteidp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AdminClient implements ports.PasswordAdmin against the provider's
// privileged admin endpoint. The service token authorizes the call; the
// backend itself decides whether the acting user may reset passwords.
type AdminClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// AdminClientConfig holds configuration for AdminClient.
type AdminClientConfig struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewAdminClient creates a privileged admin client.
func NewAdminClient(cfg AdminClientConfig) (*AdminClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("admin base URL is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("admin token is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &AdminClient{baseURL: cfg.BaseURL, token: cfg.Token, httpClient: httpClient}, nil
}

// SetPasswordByEmail relays a password reset for the given account. The new
// password is carried only in the request body and never logged.
func (c *AdminClient) SetPasswordByEmail(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("marshal password change: %w", err)
	}

	url := c.baseURL + "/users/password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build password change request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("password change request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAdminError(resp)
	}
	return nil
}

// decodeAdminError surfaces the backend's error message when present so the
// caller can relay authorization failures as-is.
func decodeAdminError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr == nil && json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("password change rejected (%d): %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("password change rejected: unexpected status %d", resp.StatusCode)
}
