package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// Token rotation headers: the server may hand back a fresh pair on any
// response, which the client persists before anything else happens.
const (
	headerAccessToken  = "Access-Token"
	headerRefreshToken = "Refresh-Token"
)

// TokenStore is the persisted token storage the client reads before
// each request and writes back to on rotation. Implementations must be
// safe for concurrent use.
type TokenStore interface {
	Tokens() (access, refresh string)
	Save(access, refresh string) error
}

// MemoryTokenStore keeps the pair in memory; useful for tests and
// short-lived processes.
type MemoryTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (s *MemoryTokenStore) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

func (s *MemoryTokenStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

type Config struct {
	BaseURL string
	Tokens  TokenStore

	// LoginPath is where UnauthorizedError redirects point, with the
	// attempted path carried as ?redirectTo=. Defaults to /login.
	LoginPath string

	// HTTPClient overrides the default 10s-timeout client.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	loginPath  string
	tokens     TokenStore
	httpClient *http.Client

	cart *cartCache
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("storeclient: base URL required")
	}
	if cfg.Tokens == nil {
		cfg.Tokens = &MemoryTokenStore{}
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		loginPath:  cfg.LoginPath,
		tokens:     cfg.Tokens,
		httpClient: httpClient,
		cart:       &cartCache{},
	}, nil
}

// rotatedTokens extracts a replacement token pair from response
// headers, if the server sent one.
func rotatedTokens(h http.Header) (access, refresh string, ok bool) {
	access = h.Get(headerAccessToken)
	refresh = h.Get(headerRefreshToken)
	return access, refresh, access != ""
}

// do runs one request/response cycle: bearer injection, token rotation
// persistence, error classification and JSON decoding into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("storeclient: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("storeclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	access, refresh := c.tokens.Tokens()
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if refresh != "" {
		req.Header.Set(headerRefreshToken, refresh)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if uerr, ok := err.(*url.Error); ok && uerr.Timeout() {
			return fmt.Errorf("%w: request timed out: %v", ErrNetwork, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if a, r, ok := rotatedTokens(resp.Header); ok {
		if err := c.tokens.Save(a, r); err != nil {
			return fmt.Errorf("storeclient: persist rotated tokens: %w", err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &UnauthorizedError{
			RedirectTo: c.loginPath + "?redirectTo=" + url.QueryEscape(path),
		}
	}
	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{Status: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("storeclient: decode response: %w", err)
	}
	return nil
}

// envelope is the server's list wrapper. doList is the single
// unwrapping point for it.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

func (c *Client) doList(ctx context.Context, path string, outData any) (*Meta, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Data, outData); err != nil {
		return nil, fmt.Errorf("storeclient: decode list data: %w", err)
	}
	return env.Meta, nil
}
