// Package agent talks to the chat endpoint of the planning assistant.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	app_errors "enchanted-day/backend/internal/errors"
)

// RequestType selects how the agent frames a prompt.
type RequestType string

const (
	TypeChat               RequestType = "chat"
	TypeGuestInquiry       RequestType = "guest_inquiry"
	TypeOptimization       RequestType = "optimization"
	TypeNegotiation        RequestType = "negotiation"
	TypeVendorCoordination RequestType = "vendor_coordination"
)

// Request is the JSON body posted to the chat endpoint.
type Request struct {
	Prompt    string         `json:"prompt" validate:"required"`
	WeddingID string         `json:"wedding_id,omitempty"`
	Type      RequestType    `json:"type,omitempty" validate:"omitempty,oneof=chat guest_inquiry optimization negotiation vendor_coordination"`
	Context   map[string]any `json:"context,omitempty"`
	Stream    bool           `json:"stream"`
}

// Suggestion is a navigation hint returned with non-streaming replies.
type Suggestion struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Response is the reply to a non-streaming request.
type Response struct {
	Response    string         `json:"response"`
	Data        map[string]any `json:"data,omitempty"`
	Suggestions []Suggestion   `json:"suggestions,omitempty"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned non-200 status %d: %s", e.Code, e.Body)
}

// Client posts prompts to a chat endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	token    string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Timeouts belong here.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRateLimit makes the client wait for a token before every request.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(cl *Client) { cl.limiter = rate.NewLimiter(limit, burst) }
}

// WithBearerToken sends token in the Authorization header.
func WithBearerToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validateRequest(req *Request) error {
	validateOnce.Do(func() { validate = validator.New() })
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(msgs, "; "))
	}
	return nil
}

// Stream posts req with streaming enabled and returns the response body. The
// caller owns the body and must close it.
func (c *Client) Stream(ctx context.Context, req *Request) (io.ReadCloser, error) {
	req.Stream = true
	resp, err := c.do(ctx, req, "text/event-stream")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// StreamChat implements chat.Transport with a plain chat request.
func (c *Client) StreamChat(ctx context.Context, prompt, weddingID string) (io.ReadCloser, error) {
	return c.Stream(ctx, &Request{Prompt: prompt, WeddingID: weddingID, Type: TypeChat})
}

// Send posts req without streaming and decodes the JSON reply.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	req.Stream = false
	resp, err := c.do(ctx, req, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, req *Request, accept string) (*http.Response, error) {
	if req.Type == "" {
		req.Type = TypeChat
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}
	return resp, nil
}
