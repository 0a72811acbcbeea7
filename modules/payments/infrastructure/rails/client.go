// Package rails implements the payment provider integrations.
package rails

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tabison/suppliers/modules/payments/domain"
)

const maxErrorBody = 4 << 10

// NewHTTPClient returns a client with a timeout and OpenTelemetry spans for
// every outbound call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// apiClient talks JSON to one provider.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, client *http.Client) apiClient {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return apiClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c apiClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out. Other statuses become
// an httpError wrapping domain.ErrUpstream.
func (c apiClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &httpError{method: req.Method, path: req.URL.Path, status: resp.StatusCode, body: body}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", domain.ErrUpstream, req.URL.Path, err)
	}
	return nil
}

type httpError struct {
	method string
	path   string
	status int
	body   []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s: %s %s returned %d: %s", domain.ErrUpstream, e.method, e.path, e.status, strings.TrimSpace(string(e.body)))
}

func (e *httpError) Unwrap() error { return domain.ErrUpstream }

// tokenCache holds an OAuth access token until shortly before it expires.
type tokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
	fetch   func(ctx context.Context) (string, time.Duration, error)
	now     func() time.Time
}

func (t *tokenCache) get(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expires) {
		return t.token, nil
	}
	token, ttl, err := t.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching access token: %w", err)
	}
	// Refresh a minute early.
	t.token = token
	t.expires = t.now().Add(ttl - time.Minute)
	return token, nil
}

func requireCredentials(rail domain.Method, values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s requires %s", domain.ErrMissingCredentials, rail, strings.Join(missing, ", "))
}
