// Package notify implements the client side of the notification delivery
// subsystem: a REST client for the notification API, a reconciling poller
// with duplicate suppression, read/delete mutations, a WebSocket listener
// for pushed events, and a native-alert surfacing adapter.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/portosite/backend/internal/domain"
	"github.com/portosite/backend/pkg/response"
)

// Client is a thin HTTP client for the notification API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL, authenticating with the
// given bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// List fetches the full notification list, newest first.
func (c *Client) List(ctx context.Context) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Create creates a notification. Normally the server creates notifications
// itself; this exists for admin tooling.
func (c *Client) Create(ctx context.Context, title, message, notifType string, messageID *uuid.UUID) (*domain.Notification, error) {
	body := map[string]interface{}{
		"title":   title,
		"message": message,
		"type":    notifType,
	}
	if messageID != nil {
		body["messageId"] = messageID.String()
	}

	var n domain.Notification
	if err := c.do(ctx, http.MethodPost, "/api/v1/notifications", body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// SetRead updates the read flag for one notification.
func (c *Client) SetRead(ctx context.Context, id uuid.UUID, isRead bool) (*domain.Notification, error) {
	var n domain.Notification
	path := "/api/v1/notifications/" + id.String()
	if err := c.do(ctx, http.MethodPatch, path, map[string]bool{"isRead": isRead}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes one notification.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/notifications/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return response.Decode(resp.Body, out)
}
