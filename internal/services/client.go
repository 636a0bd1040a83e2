package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tokens"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.spotify.com/v1"
	DefaultTimeout = 10 * time.Second
)

const reasonNoActiveDevice = "NO_ACTIVE_DEVICE"

// Request describes one Web API call. Body, when set, is sent as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful (2xx) answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NoContent reports whether the server sent nothing to decode.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(r.Body)) == 0
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
	// RequestsPerSecond paces outbound requests; zero or less disables pacing.
	RequestsPerSecond float64
	Store             tokens.Store
	Refresher         Refresher
	Logger            *log.Logger
}

// Client is the resilient request layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	store      tokens.Store
	refresher  Refresher
	logger     *log.Logger
}

// NewClient creates a [Client].
func NewClient(opts ClientOpts) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	store := opts.Store
	if store == nil {
		store = tokens.NewMemoryStore(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		store:      store,
		refresher:  opts.Refresher,
		logger:     loggerOrDiscard(opts.Logger),
	}
}

// Do sends req, refreshing the token once if it is rejected.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return WithAuthRetry(ctx, c.accessToken, c.refresher, c.logger,
		func(ctx context.Context, token string) (*Response, error) {
			return c.attempt(ctx, req, token)
		})
}

// DoJSON sends req and decodes the answer into v. found is false when the server sent no content.
func (c *Client) DoJSON(ctx context.Context, req Request, v any) (found bool, err error) {
	return doJSON(ctx, c, req, v)
}

func doJSON(ctx context.Context, d Doer, req Request, v any) (bool, error) {
	resp, err := d.Do(ctx, req)
	if err != nil {
		return false, err
	}
	if resp.NoContent() {
		return false, nil
	}
	return true, resp.Decode(v)
}

func (c *Client) accessToken() (string, error) {
	tok, ok, err := tokens.Load(c.store)
	if err != nil || !ok {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *Client) attempt(ctx context.Context, req Request, token string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(ctx, err)
	}

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", shared.ErrInvalidInput, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidInput, err)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", req.Path, "err", err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	c.logger.Debug("request", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "took", time.Since(start))

	if err := statusError(resp.StatusCode, resp.Header, data); err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// spotifyError is the Web API error body.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

// statusError maps a non-2xx answer onto a typed error; 2xx yields nil.
func statusError(status int, header http.Header, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	apiErr := &shared.APIError{Status: status, Kind: shared.ErrAPIRequest}

	var payload spotifyError
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Error.Message
		apiErr.Reason = payload.Error.Reason
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = shared.ErrUnauthorized
	case status == http.StatusTooManyRequests:
		apiErr.Kind = shared.ErrRateLimited
		if after := header.Get("Retry-After"); after != "" {
			apiErr.Message += fmt.Sprintf(" (retry after %ss)", after)
		}
	case status == http.StatusNotFound && apiErr.Reason == reasonNoActiveDevice:
		apiErr.Kind = shared.ErrNoActiveDevice
	}

	return apiErr
}

func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", shared.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", shared.ErrNetwork, err)
	}
}

// WithAuthRetry runs call with the token from read. When the token is rejected it
// refreshes once, reads the token again and calls once more.
//
// Errors other than [shared.ErrUnauthorized] are returned unchanged.
func WithAuthRetry[T any](
	ctx context.Context,
	read TokenReader,
	refresher Refresher,
	logger *log.Logger,
	call func(ctx context.Context, token string) (T, error),
) (T, error) {
	var zero T
	logger = loggerOrDiscard(logger)

	token, err := read()
	if err != nil {
		return zero, err
	}

	result, err := call(ctx, token)
	if !errors.Is(err, shared.ErrUnauthorized) {
		return result, err
	}

	if refresher == nil {
		return zero, fmt.Errorf("%w: %v", shared.ErrAuth, err)
	}

	logger.Debug("access token rejected, refreshing")
	if err := refresher.Refresh(ctx); err != nil {
		if errors.Is(err, shared.ErrAuth) {
			return zero, err
		}
		return zero, fmt.Errorf("%w: refresh failed: %w", shared.ErrAuth, err)
	}

	token, err = read()
	if err != nil {
		return zero, err
	}

	result, err = call(ctx, token)
	if errors.Is(err, shared.ErrUnauthorized) {
		return zero, fmt.Errorf("%w: token rejected after refresh: %v", shared.ErrAuth, err)
	}
	return result, err
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
