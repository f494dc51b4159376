package skylight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Frame discovery. The remote contract for locating the account's frame
// is implicit and has shifted before, so the client probes three
// endpoints in fixed order and takes the first hit. A probe's own
// failure (transport or non-2xx) only moves discovery to the next probe;
// exhaustion of all three is the fatal case, reported by the caller.

type userResponse struct {
	Data struct {
		ID            string `json:"id"`
		Relationships struct {
			Frames struct {
				Data []resourceRef `json:"data"`
			} `json:"frames"`
		} `json:"relationships"`
	} `json:"data"`
	Included []resourceRef `json:"included"`
}

func frameFromUser(parsed *userResponse) string {
	if refs := parsed.Data.Relationships.Frames.Data; len(refs) > 0 {
		return refs[0].ID
	}
	for _, res := range parsed.Included {
		if res.Type == "frame" || res.Type == "frames" {
			return res.ID
		}
	}
	return ""
}

// DiscoverFrame resolves the account's frame id using the ordered probe
// sequence. The second return is false when every probe was exhausted
// without a result.
func (c *Client) DiscoverFrame(ctx context.Context, creds Credentials) (string, bool) {
	probes := []struct {
		name string
		run  func(context.Context, Credentials) (string, error)
	}{
		{"frames index", c.probeFramesIndex},
		{"current user", c.probeCurrentUser},
		{"user by id", c.probeUserByID},
	}

	for _, probe := range probes {
		frameID, err := probe.run(ctx, creds)
		if err != nil {
			slog.Debug("frame discovery probe failed", "probe", probe.name, "error", err)
			continue
		}
		if frameID != "" {
			slog.Debug("frame discovered", "probe", probe.name, "frame_id", frameID)
			return frameID, true
		}
	}
	return "", false
}

// probeFramesIndex lists all frames owned by the account and takes the first.
func (c *Client) probeFramesIndex(ctx context.Context, creds Credentials) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/frames", &creds, nil)
	if err != nil {
		return "", err
	}
	if status/100 != 2 {
		return "", fmt.Errorf("status %d", status)
	}

	var parsed struct {
		Data []resourceRef `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse frames response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return "", nil
	}
	return parsed.Data[0].ID, nil
}

// probeCurrentUser fetches the current-user resource with its frames
// relationship included.
func (c *Client) probeCurrentUser(ctx context.Context, creds Credentials) (string, error) {
	return c.probeUser(ctx, creds, "/api/users/me?include=frames")
}

// probeUserByID fetches the user resource by id with the same relationship.
func (c *Client) probeUserByID(ctx context.Context, creds Credentials) (string, error) {
	return c.probeUser(ctx, creds, "/api/users/"+creds.UserID+"?include=frames")
}

func (c *Client) probeUser(ctx context.Context, creds Credentials, path string) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, &creds, nil)
	if err != nil {
		return "", err
	}
	if status/100 != 2 {
		return "", fmt.Errorf("status %d", status)
	}

	var parsed userResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse user response: %w", err)
	}
	return frameFromUser(&parsed), nil
}
