package autodesk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public Autodesk Platform Services host.
	DefaultBaseURL = "https://developer.api.autodesk.com"

	workItemsPath = "/autocad.io/us-east/v2/WorkItems"

	// MissingTokenReason explains a preview-only result.
	MissingTokenReason = "AUTODESK_TOKEN missing; showing payload instead of posting"
)

// timeout is the default timeout for work-item submission.
var timeout = 30 * time.Second

// Config configures the Design Automation client.
type Config struct {
	// Token is an opaque bearer token. Empty means preview only.
	Token   string
	BaseURL string
	Timeout time.Duration
}

// SendResult describes what happened to a payload.
type SendResult struct {
	Sent     bool            `json:"sent"`
	Reason   string          `json:"reason,omitempty"`
	Target   string          `json:"target"`
	Payload  *RequestPayload `json:"payload,omitempty"`
	Response any             `json:"response,omitempty"`
}

// Client submits work items, or previews them when no token is configured.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := cfg.Timeout
	if t <= 0 {
		t = timeout
	}

	httpClient := &http.Client{Timeout: t}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient.Transport = &oauth2.Transport{Source: src, Base: http.DefaultTransport}
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Enabled reports whether Send will hit the network.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// Target returns the work-item endpoint.
func (c *Client) Target() string {
	return strings.TrimRight(c.baseURL, "/") + workItemsPath
}

// Send posts payload to Design Automation. Without a token it returns a
// preview result and performs no I/O. Non-2xx responses are errors.
func (c *Client) Send(ctx context.Context, payload *RequestPayload) (*SendResult, error) {
	target := c.Target()
	if !c.Enabled() {
		return &SendResult{
			Sent:    false,
			Reason:  MissingTokenReason,
			Payload: payload,
			Target:  target,
		}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal work item for %s", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to construct work item request to %s", target)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to post work item to %s", target)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read work item response from %s", target)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("failed to post work item %s, status code: %d, response body: %s", target, resp.StatusCode, b)
	}

	var decoded any
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &decoded); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal work item response from %s", target)
		}
	}

	slog.Info("Design Automation work item submitted",
		slog.String("target", target),
		slog.Int("status", resp.StatusCode),
	)

	return &SendResult{
		Sent:     true,
		Target:   target,
		Response: decoded,
	}, nil
}
