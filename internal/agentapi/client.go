// Package agentapi is the REST client for the conversational-agent
// platform that drives replies. One agent instance exists per bot
// account; each inbound chat message becomes one user turn.
package agentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okami-inn/okami/internal/httpx"
)

// Message is one typed entry in an agent response. The platform returns
// the agent's full turn: internal reasoning, tool calls, and tool
// returns, discriminated by MessageType.
type Message struct {
	ID          string `json:"id"`
	MessageType string `json:"message_type"`

	// function_call_message
	FunctionCall *FunctionCall `json:"function_call,omitempty"`

	// function_return message; payload is a JSON document
	FunctionReturn string `json:"function_return,omitempty"`

	// internal_monologue / system entries
	Text string `json:"text,omitempty"`
}

// FunctionCall names a tool the agent invoked with raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Response is the agent's complete turn for one submitted message.
type Response struct {
	Messages []Message `json:"messages"`
}

// Client talks to the agent platform over REST.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = httpx.DefaultTimeout
	}
	return &Client{baseURL: baseURL, timeout: timeout}
}

// SendMessage submits one turn to the given agent and returns its
// structured response.
func (c *Client) SendMessage(ctx context.Context, agentID, role, message string) (*Response, error) {
	url := fmt.Sprintf("%s/v1/agents/%s/messages", c.baseURL, agentID)
	result, err := httpx.Request(ctx, url, map[string]any{
		"role":    role,
		"message": message,
	}, httpx.Options{Method: "POST", Timeout: c.timeout})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", agentID, err)
	}
	if result == nil {
		return &Response{}, nil
	}

	// Round-trip through JSON to map the loosely-typed envelope onto the
	// typed message entries.
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("agent %s: decode response: %w", agentID, err)
	}
	return &resp, nil
}
