package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"pair-lab/errors"
	"strings"
	"time"
)

const maxErrorBody = 2048

type Config struct {
	BaseURL     string
	APIKey      string
	APISecret   string
	CallType    string
	ChannelType string
}

// Client is the HTTP implementation of IProvisioner and ICredentialIssuer.
type Client struct {
	config      Config
	httpClient  *http.Client
	log         *slog.Logger
	serverToken string
}

func NewClient(config Config, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	if config.BaseURL == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("collaboration provider base url, api key and secret are required")
	}
	if config.CallType == "" {
		config.CallType = "default"
	}
	if config.ChannelType == "" {
		config.ChannelType = "messaging"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	serverToken, err := newServerToken([]byte(config.APISecret))
	if err != nil {
		return nil, fmt.Errorf("server token generation failed: %w", err)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{config: config, httpClient: httpClient, log: log, serverToken: serverToken}, nil
}

type callRequest struct {
	Data callData `json:"data"`
}

type callData struct {
	CreatedByID string            `json:"created_by_id"`
	Custom      map[string]string `json:"custom"`
}

type channelRequest struct {
	Data channelData `json:"data"`
}

type channelData struct {
	Name        string `json:"name"`
	CreatedByID string `json:"created_by_id"`
}

type membersRequest struct {
	AddMembers    []string `json:"add_members,omitempty"`
	RemoveMembers []string `json:"remove_members,omitempty"`
}

// Provision creates the call and then the chat channel for handle.
func (c *Client) Provision(ctx context.Context, handle string, meta Metadata) error {
	call := callRequest{Data: callData{
		CreatedByID: meta.CreatedBy,
		Custom: map[string]string{
			"problem":    meta.Problem,
			"difficulty": meta.Difficulty,
			"sessionId":  meta.SessionID,
		},
	}}
	if err := c.do(ctx, http.MethodPost, c.callPath(handle), call, false); err != nil {
		return fmt.Errorf("create call: %w", err)
	}
	channel := channelRequest{Data: channelData{
		Name:        fmt.Sprintf("%s Session", meta.Problem),
		CreatedByID: meta.CreatedBy,
	}}
	if err := c.do(ctx, http.MethodPost, c.channelPath(handle), channel, false); err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

func (c *Client) AddMember(ctx context.Context, handle, userID string) error {
	body := membersRequest{AddMembers: []string{userID}}
	if err := c.do(ctx, http.MethodPost, c.channelPath(handle)+"/members", body, false); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (c *Client) RemoveMember(ctx context.Context, handle, userID string) error {
	body := membersRequest{RemoveMembers: []string{userID}}
	if err := c.do(ctx, http.MethodPost, c.channelPath(handle)+"/members", body, false); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (c *Client) DeleteCall(ctx context.Context, handle string) error {
	if err := c.do(ctx, http.MethodDelete, c.callPath(handle)+"?hard=true", nil, true); err != nil {
		return fmt.Errorf("delete call: %w", err)
	}
	return nil
}

func (c *Client) DeleteChannel(ctx context.Context, handle string) error {
	if err := c.do(ctx, http.MethodDelete, c.channelPath(handle), nil, true); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func (c *Client) callPath(handle string) string {
	return fmt.Sprintf("/video/call/%s/%s", url.PathEscape(c.config.CallType), url.PathEscape(handle))
}

func (c *Client) channelPath(handle string) string {
	return fmt.Sprintf("/channels/%s/%s", url.PathEscape(c.config.ChannelType), url.PathEscape(handle))
}

// do performs a single attempt. Any transport failure or non-2xx answer is an
// ErrProvider; with notFoundOK a 404 counts as success.
func (c *Client) do(ctx context.Context, method, path string, body any, notFoundOK bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return fmt.Errorf("%w: invalid endpoint: %v", errors.ErrProvider, err)
	}
	query := endpoint.Query()
	query.Set("api_key", c.config.APIKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrProvider, err)
	}
	req.Header.Set("Authorization", c.serverToken)
	req.Header.Set("Stream-Auth-Type", "jwt")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", errors.ErrProvider, method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("Provider call", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound && notFoundOK {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s returned %d: %s", errors.ErrProvider,
			method, path, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
