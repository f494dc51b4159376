package skylight

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/skyscan/internal/types"
)

// Client talks to the Skylight list service. It performs no retries and
// no caching; callers own both.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Credentials is the per-call authorization material. The header value is
// derived deterministically from the user id and the opaque token.
type Credentials struct {
	UserID string
	Token  string
}

func (c Credentials) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.UserID+":"+c.Token))
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type sessionResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Email              string `json:"email"`
			Token              string `json:"token"`
			SubscriptionStatus string `json:"subscription_status"`
		} `json:"attributes"`
	} `json:"data"`
}

type listResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Label string `json:"label"`
		Color string `json:"color"`
		Kind  string `json:"kind"`
	} `json:"attributes"`
}

type itemResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Label  string `json:"label"`
		Status string `json:"status"`
	} `json:"attributes"`
}

// do performs one request and returns the status code and raw body.
// Transport failures come back as types.NetworkError; HTTP status
// handling is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, creds *Credentials, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		req.Header.Set("Authorization", creds.basicAuth())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &types.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &types.NetworkError{Err: err}
	}
	return resp.StatusCode, respBody, nil
}

func apiError(status int, body []byte) error {
	return &types.APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}
}

// LoginResult carries the authenticated user returned by the session
// endpoint.
type LoginResult struct {
	UserID             string
	Email              string
	Token              string
	SubscriptionStatus string
}

// Login authenticates against POST /api/sessions. 401 and 422 map to
// AuthError; other non-2xx statuses map to APIError.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	status, body, err := c.do(ctx, http.MethodPost, "/api/sessions", nil, payload)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return nil, &types.AuthError{Reason: "invalid email or password"}
	case status == http.StatusUnprocessableEntity:
		return nil, &types.AuthError{Reason: "invalid email format or missing fields"}
	case status/100 != 2:
		return nil, apiError(status, body)
	}

	var parsed sessionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	return &LoginResult{
		UserID:             parsed.Data.ID,
		Email:              parsed.Data.Attributes.Email,
		Token:              parsed.Data.Attributes.Token,
		SubscriptionStatus: parsed.Data.Attributes.SubscriptionStatus,
	}, nil
}

// Lists fetches all lists on the frame.
func (c *Client) Lists(ctx context.Context, creds Credentials, frameID string) ([]types.ListSummary, error) {
	path := fmt.Sprintf("/api/frames/%s/lists", frameID)
	status, body, err := c.do(ctx, http.MethodGet, path, &creds, nil)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, apiError(status, body)
	}

	var parsed struct {
		Data []listResource `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse lists response: %w", err)
	}

	lists := make([]types.ListSummary, 0, len(parsed.Data))
	for _, res := range parsed.Data {
		lists = append(lists, types.ListSummary{
			ID:    res.ID,
			Label: res.Attributes.Label,
			Color: res.Attributes.Color,
			Kind:  types.ListKind(res.Attributes.Kind),
		})
	}
	return lists, nil
}

// ListItems fetches one list with its items; items arrive in the
// "included" section of the response.
func (c *Client) ListItems(ctx context.Context, creds Credentials, frameID, listID string) ([]types.ListItem, error) {
	path := fmt.Sprintf("/api/frames/%s/lists/%s", frameID, listID)
	status, body, err := c.do(ctx, http.MethodGet, path, &creds, nil)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, apiError(status, body)
	}

	var parsed struct {
		Data     json.RawMessage `json:"data"`
		Included []itemResource  `json:"included"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse list response: %w", err)
	}

	items := make([]types.ListItem, 0, len(parsed.Included))
	for _, res := range parsed.Included {
		if res.Type != "list_item" {
			continue
		}
		items = append(items, types.ListItem{
			ID:     res.ID,
			Label:  res.Attributes.Label,
			Status: types.ItemStatus(res.Attributes.Status),
		})
	}
	return items, nil
}

// AddListItem creates a new item with the given label on the list.
func (c *Client) AddListItem(ctx context.Context, creds Credentials, frameID, listID, label string) (*types.ListItem, error) {
	path := fmt.Sprintf("/api/frames/%s/lists/%s/list_items", frameID, listID)
	payload := map[string]string{"label": label}
	status, body, err := c.do(ctx, http.MethodPost, path, &creds, payload)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, apiError(status, body)
	}

	var parsed struct {
		Data itemResource `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse item response: %w", err)
	}
	return &types.ListItem{
		ID:     parsed.Data.ID,
		Label:  parsed.Data.Attributes.Label,
		Status: types.ItemStatus(parsed.Data.Attributes.Status),
	}, nil
}
