// Package giftclient is the caller-side adapter for the gateway API. Every
// call carries a fixed timeout and failures map to typed errors, so an
// interactive consumer can degrade instead of blocking or crashing.
package giftclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/giftgram/giftgram/internal/domain"
)

// DefaultTimeout bounds each gateway call when the caller does not configure
// one. No retries happen inside the adapter; one user event means at most one
// attempt per call.
const DefaultTimeout = 5 * time.Second

// Client talks to the gateway API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a gateway client. A zero timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// APIError is the typed form of the gateway's error envelope.
type APIError struct {
	StatusCode         int
	Category           string
	Message            string
	SupportedLanguages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway error %d (%s): %s", e.StatusCode, e.Category, e.Message)
}

// UpsertResult couples the stored record with whether this call created it.
type UpsertResult struct {
	User    *domain.User
	Created bool
}

// FindOrCreateUser registers or refreshes the identity payload and returns
// the stored record.
func (c *Client) FindOrCreateUser(ctx context.Context, payload *domain.UserPayload) (*UpsertResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/user/findOrCreate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := decodeJSON(resp, &user, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	return &UpsertResult{
		User:    &user,
		Created: resp.StatusCode == http.StatusCreated,
	}, nil
}

// SetPreferredLanguage records an explicit locale choice for the user.
func (c *Client) SetPreferredLanguage(ctx context.Context, id int64, lang string) (*domain.User, error) {
	body, err := json.Marshal(map[string]string{"preferredLanguage": lang})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/user/%d/language", id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetBundle fetches the flat translation map for lang.
func (c *Client) GetBundle(ctx context.Context, lang string) (map[string]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/translations/"+lang, nil)
	if err != nil {
		return nil, err
	}

	var bundle map[string]string
	if err := decodeJSON(resp, &bundle, http.StatusOK); err != nil {
		return nil, err
	}

	return bundle, nil
}

// Languages describes the gateway's supported locale set.
type Languages struct {
	SupportedLanguages []string `json:"supportedLanguages"`
	DefaultLanguage    string   `json:"defaultLanguage"`
}

// SupportedLanguages fetches the closed locale enumeration.
func (c *Client) SupportedLanguages(ctx context.Context) (*Languages, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/translations", nil)
	if err != nil {
		return nil, err
	}

	var langs Languages
	if err := decodeJSON(resp, &langs, http.StatusOK); err != nil {
		return nil, err
	}

	return &langs, nil
}

// Health reports whether the gateway considers itself healthy.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	return resp, nil
}

// decodeJSON decodes a success response into target, or returns a typed
// APIError for anything outside the expected statuses.
func decodeJSON(resp *http.Response, target any, expected ...int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	ok := false
	for _, status := range expected {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope struct {
		Error struct {
			Category           string   `json:"category"`
			Message            string   `json:"message"`
			SupportedLanguages []string `json:"supportedLanguages"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Category != "" {
		return &APIError{
			StatusCode:         resp.StatusCode,
			Category:           envelope.Error.Category,
			Message:            envelope.Error.Message,
			SupportedLanguages: envelope.Error.SupportedLanguages,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Category:   "unknown",
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
