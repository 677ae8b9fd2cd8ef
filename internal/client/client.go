// Package client calls the three auth endpoints and returns typed, validated results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/models/dto"
	"github.com/hongminglow/auth-smoke/internal/validate"
)

// FallbackMessage is reported when an error response carries no "error" field.
const FallbackMessage = "unknown error"

// ErrInvalidResponse wraps bodies that could not be decoded or failed validation.
var ErrInvalidResponse = errors.New("invalid response")

// APIError is a non-200 reply from the auth service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client talks to one auth service.
type Client struct {
	baseURL   string
	http      *http.Client
	validator *validate.Validator
	logger    *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for baseURL, e.g. "http://localhost:3333".
func New(baseURL string, v *validate.Validator, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		validator: v,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Register creates a player and returns the echoed record.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (models.UserRecord, error) {
	var out models.UserRecord
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, "", &out); err != nil {
		return models.UserRecord{}, err
	}
	return out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, identifier, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := dto.LoginRequest{Identifier: identifier, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, "", &out); err != nil {
		return dto.LoginResponse{}, err
	}
	return out, nil
}

// Me fetches the profile the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (models.UserRecord, error) {
	var out dto.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, &out); err != nil {
		return models.UserRecord{}, err
	}
	return out.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token string, out any) error {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return fmt.Errorf("encode %s payload: %w", path, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	c.logger.Debug("auth call", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(raw), "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, path, err)
	}
	if err := c.validator.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || strings.TrimSpace(body.Error) == "" {
		return FallbackMessage
	}
	return body.Error
}
