// Package api is the HTTP client for the savekeeper server. It translates
// HTTP status codes back into the shared sentinel errors, so CLI code handles
// failures the same way server code does.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/savekeeper/internal/common"
)

// Share permission levels, mirroring the server's encoding.
const (
	PermissionRead      = 1
	PermissionReadWrite = 2
)

// Save is the wire shape of a save document.
type Save struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	ToolID      string          `json:"tool_id"`
	OwnerID     string          `json:"owner_id"`
	Locked      bool            `json:"locked"`
	LockedByID  *string         `json:"locked_by_id,omitempty"`
	LastLocked  *time.Time      `json:"last_locked,omitempty"`
	LastOpened  *time.Time      `json:"last_opened,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ShareGrant is the wire shape of a share grant.
type ShareGrant struct {
	ID         string    `json:"id"`
	SaveID     string    `json:"save_id"`
	UserID     string    `json:"user_id"`
	Permission int       `json:"permission"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tool is the wire shape of a tool.
type Tool struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SavePatch carries an edit request; nil fields are not sent.
type SavePatch struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// Client talks to the savekeeper HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a Client for the server at baseURL using the given bearer
// token. Pass an empty token for unauthenticated probing; the server will
// reject such requests with ErrUnauthorized.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusToError maps an error response to the matching sentinel. The server
// message is attached for display.
func statusToError(status int, body []byte) error {
	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = common.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrForbidden
	case http.StatusNotFound:
		sentinel = common.ErrNotFound
	case http.StatusUnprocessableEntity:
		sentinel = common.ErrValidation
	case http.StatusLocked:
		sentinel = common.ErrNotLockHolder
	case http.StatusFailedDependency:
		sentinel = common.ErrLockConflict
	default:
		sentinel = common.ErrInternal
	}

	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, resp.Error)
	}
	return sentinel
}

// do performs a JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return statusToError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

// ListSaves returns all saves visible to the token's user.
func (c *Client) ListSaves(ctx context.Context) ([]Save, error) {
	var out []Save
	if err := c.do(ctx, http.MethodGet, "/api/saves", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSave fetches one save by id.
func (c *Client) GetSave(ctx context.Context, id string) (*Save, error) {
	var out Save
	if err := c.do(ctx, http.MethodGet, "/api/saves/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSave creates a save bound to toolID.
func (c *Client) CreateSave(ctx context.Context, name, description, toolID string, data json.RawMessage) (*Save, error) {
	in := map[string]any{"name": name, "tool_id": toolID}
	if description != "" {
		in["description"] = description
	}
	if data != nil {
		in["data"] = data
	}
	var out Save
	if err := c.do(ctx, http.MethodPost, "/api/saves", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLock acquires (lock=true) or releases (lock=false) the edit lock.
func (c *Client) SetLock(ctx context.Context, id string, lock bool) error {
	return c.do(ctx, http.MethodPatch, "/api/saves/"+id, map[string]bool{"lock": lock}, nil)
}

// EditSave applies a field patch. The caller must hold the lock.
func (c *Client) EditSave(ctx context.Context, id string, patch SavePatch) error {
	return c.do(ctx, http.MethodPatch, "/api/saves/"+id, patch, nil)
}

// DeleteSave removes a save.
func (c *Client) DeleteSave(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/saves/"+id, nil, nil)
}

// GrantShare shares a save with userID at the given permission level.
func (c *Client) GrantShare(ctx context.Context, saveID, userID string, permission int) (*ShareGrant, error) {
	in := map[string]any{"user_id": userID, "permission": permission}
	var out ShareGrant
	if err := c.do(ctx, http.MethodPost, "/api/saves/"+saveID+"/shares", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptShare accepts a pending grant addressed to the token's user.
func (c *Client) AcceptShare(ctx context.Context, grantID string) error {
	return c.do(ctx, http.MethodPost, "/api/shares/"+grantID+"/accept", nil, nil)
}

// RevokeShare deletes a grant.
func (c *Client) RevokeShare(ctx context.Context, grantID string) error {
	return c.do(ctx, http.MethodDelete, "/api/shares/"+grantID, nil, nil)
}

// ListShares lists the grants on a save.
func (c *Client) ListShares(ctx context.Context, saveID string) ([]ShareGrant, error) {
	var out []ShareGrant
	if err := c.do(ctx, http.MethodGet, "/api/saves/"+saveID+"/shares", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTools lists the registered tools.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var out []Tool
	if err := c.do(ctx, http.MethodGet, "/api/tools", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
