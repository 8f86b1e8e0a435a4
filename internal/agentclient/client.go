// Package agentclient relays execute requests to a running agent over HTTP.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mj1618/terminator-agent/internal/agent"
)

// DefaultURL is the agent's default listen address.
const DefaultURL = "http://127.0.0.1:8000"

// ErrOffline means no agent answered at the configured address.
var ErrOffline = errors.New("terminator agent is offline or unreachable")

// Typing at human cadence can take a while for long text.
const callTimeout = 2 * time.Minute

// StatusError is a non-2xx reply that is not a NotFound.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent returned status %d: %s", e.Status, e.Detail)
}

// Client calls one agent.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL, or DefaultURL if empty.
func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: callTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type executeBody struct {
	App    string  `json:"app"`
	Action *string `json:"action"`
}

// Execute sends req to the agent's /execute endpoint. A 404 comes back as
// an *agent.Error of kind NotFound; other failures as *StatusError or
// ErrOffline.
func (c *Client) Execute(ctx context.Context, req agent.Request) (agent.Result, error) {
	if strings.TrimSpace(req.App) == "" {
		return agent.Result{}, &agent.Error{Kind: agent.KindInvalid, Err: errors.New("'app' field is required in the request body")}
	}
	body := executeBody{App: req.App}
	if req.Action != "" {
		body.Action = &req.Action
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return agent.Result{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return agent.Result{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return agent.Result{}, ctx.Err()
		}
		return agent.Result{}, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return agent.Result{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		var res agent.Result
		if err := json.Unmarshal(raw, &res); err != nil {
			return agent.Result{}, fmt.Errorf("invalid response from agent (status %d): %w", resp.StatusCode, err)
		}
		return res, nil
	}

	detail := detailOf(raw)
	if resp.StatusCode == http.StatusNotFound {
		return agent.Result{}, &agent.Error{Kind: agent.KindNotFound, Target: req.App, Err: errors.New(detail)}
	}
	return agent.Result{}, &StatusError{Status: resp.StatusCode, Detail: detail}
}

// Health reports whether the agent answers on its root route.
func (c *Client) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid health response (status %d): %w", resp.StatusCode, err)
	}
	return body.Message, nil
}

func detailOf(raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "no response body"
}
