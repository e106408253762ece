package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// RoleChecker — interface for the admin authorization guard.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Client asks the external user directory whether an actor holds the admin
// role. This service issues no sessions of its own; the directory is the
// authority.
type Client struct {
	baseURL    string
	allowlist  map[string]struct{}
	httpClient *http.Client
}

// NewClient returns a directory client. When baseURL is empty the static
// allowlist is consulted instead; that mode is for local development only and
// Config.Validate rejects it in production.
func NewClient(baseURL string, allowlist []string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	if len(allowlist) > 0 {
		c.allowlist = make(map[string]struct{}, len(allowlist))
		for _, id := range allowlist {
			c.allowlist[id] = struct{}{}
		}
	}
	return c
}

type roleResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// IsAdmin reports whether userID holds the admin role. Directory errors are
// returned as errors, not silently treated as denial, so the caller can log
// the cause; the caller still denies the operation either way.
func (c *Client) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if c.baseURL == "" {
		_, ok := c.allowlist[userID]
		return ok, nil
	}
	endpoint := c.baseURL + "/api/v1/users/" + url.PathEscape(userID) + "/role"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("directory: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("directory: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("directory: status %d for user %s", resp.StatusCode, userID)
	}
	var out roleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("directory: decode role for %s: %v", userID, err)
		return false, fmt.Errorf("directory: decode: %w", err)
	}
	return out.IsAdmin, nil
}
