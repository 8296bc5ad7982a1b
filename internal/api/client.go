package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Token returns the current bearer token ("" when signed out).
	Token func() string
}

// Client talks to the Jendo REST API. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	token   func() string
	logger  *zap.Logger
}

// publicPaths never carry the bearer token.
var publicPaths = []string{
	"/auth/login",
	"/auth/signup",
	"/auth/refresh",
	"/doctors",
	"/notifications",
	"/wellness-recommendations",
}

func New(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "jendo-cli"
	}

	// No retries: failed requests surface to the screen that issued them.
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua)

	return &Client{
		http:    hc,
		baseURL: baseURL,
		token:   opts.Token,
		logger:  logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the response wrapper every endpoint uses.
type envelope[T any] struct {
	Success   *bool  `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp"`
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// call issues one request and unwraps the envelope.
// prepare may set a body, query params, or multipart fields.
func call[T any](ctx context.Context, c *Client, op, method, path string, prepare func(*resty.Request)) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	reqID := uuid.NewString()

	var okEnv envelope[T]
	var errEnv envelope[json.RawMessage]
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID).
		SetResult(&okEnv).
		SetError(&errEnv)
	if !isPublicPath(path) && c.token != nil {
		if tok := strings.TrimSpace(c.token()); tok != "" {
			req.SetAuthToken(tok)
		}
	}
	if prepare != nil {
		prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			// The exchange completed but the body could not be decoded.
			c.logger.Warn("api response decode failed", append(fields, zap.Int("status", resp.StatusCode()), zap.Error(err))...)
			return zero, &ServerError{Op: op, Status: resp.StatusCode()}
		}
		c.logger.Warn("api request failed", append(fields, zap.Error(err))...)
		return zero, &NetworkError{Op: op, Err: err}
	}

	fields = append(fields, zap.Int("status", resp.StatusCode()))
	if resp.IsError() {
		msg := strings.TrimSpace(errEnv.Message)
		c.logger.Warn("api returned error status", append(fields, zap.String("message", msg))...)
		return zero, &ServerError{Op: op, Status: resp.StatusCode(), Message: msg}
	}
	if okEnv.Success != nil && !*okEnv.Success {
		msg := strings.TrimSpace(okEnv.Message)
		c.logger.Warn("api returned success=false", append(fields, zap.String("message", msg))...)
		return zero, &ServerError{Op: op, Status: resp.StatusCode(), Message: msg}
	}

	c.logger.Debug("api call", fields...)
	return okEnv.Data, nil
}

func getJSON[T any](ctx context.Context, c *Client, op, path string) (T, error) {
	return call[T](ctx, c, op, http.MethodGet, path, nil)
}

func sendJSON[T any](ctx context.Context, c *Client, op, method, path string, body any) (T, error) {
	return call[T](ctx, c, op, method, path, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json")
		if body != nil {
			r.SetBody(body)
		}
	})
}
