package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// HTTPError is a non-2xx response other than 404.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// errorBody is the shape of error responses from the remote API.
type errorBody struct {
	Detail any    `json:"detail"`
	Error  string `json:"error"`
}

// API is a small JSON client bound to a base URL and an optional bearer token.
type API struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	token string
}

func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (a *API) BaseURL() string { return a.baseURL }

// SetToken sets the access token sent with every request.
// Safe to call while requests are in flight.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// URL joins path and query onto the base URL.
func (a *API) URL(path string, params url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := a.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (a *API) Get(ctx context.Context, path string, params url.Values, v any) error {
	return a.Do(ctx, http.MethodGet, path, params, nil, v)
}

func (a *API) Post(ctx context.Context, path string, body any, v any) error {
	return a.Do(ctx, http.MethodPost, path, nil, body, v)
}

// Do sends a JSON request and decodes the JSON response into v (when v is non-nil).
func (a *API) Do(ctx context.Context, method, path string, params url.Values, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.URL(path, params), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	a.authorize(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Open issues an authorized GET for an absolute URL and returns the open response.
// The caller closes the body.
func (a *API) Open(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(rawURL, a.baseURL) {
		a.authorize(req)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (a *API) authorize(req *http.Request) {
	token := a.Token()
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	httpErr := &HTTPError{Status: resp.StatusCode}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch d := body.Detail.(type) {
		case string:
			httpErr.Detail = d
		case nil:
			httpErr.Detail = body.Error
		default:
			encoded, _ := json.Marshal(d)
			httpErr.Detail = string(encoded)
		}
	} else {
		httpErr.Detail = strings.TrimSpace(string(raw))
	}
	return httpErr
}
