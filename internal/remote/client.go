package remote

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

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashflow-gateway/internal/logging"
)

const (
	DefaultBaseURL = "https://open-api.delcom.org/api/v1"
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
)

// TokenSource supplies the bearer token for authenticated calls and is told
// which token the API rejected.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Client talks to the remote cash-flow API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     *logrus.Logger
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base url: %w", err)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: newHTTPClientWithPooling(),
		tokens:     tokens,
		logger:     logrus.StandardLogger(),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{Transport: transport}
}

type request struct {
	op           string
	method       string
	path         string
	query        url.Values
	body         []byte
	contentType  string
	auth         bool
	dataOptional bool // a successful response may omit data
}

// envelope is the wrapper every API response uses.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// validator is implemented by response payloads that check their own shape
// after decoding.
type validator interface {
	validate() error
}

func jsonBody(v any) ([]byte, error) {
	return json.Marshal(v)
}

// do sends req and decodes the envelope's data into out. A nil out means
// the data is not needed.
func (c *Client) do(ctx context.Context, req request, out any) error {
	logData := logging.GetLogData(ctx)
	if logData != nil {
		defer logData.AddToExistingTiming("remoteMs")()
	}

	var token string
	if req.auth {
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("remote %s: %w", req.op, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		endpoint.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return &TransportError{Op: req.op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).WithField("op", req.op).Warn("Remote.Request.TransportError")
		return &TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: req.op, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"op":         req.op,
		"method":     req.method,
		"path":       req.path,
		"status":     resp.StatusCode,
		"durationMs": time.Since(start).Milliseconds(),
	}).Debug("Remote.Request.Complete")

	return c.handleResponse(ctx, req, token, resp.StatusCode, raw, out)
}

func (c *Client) handleResponse(ctx context.Context, req request, token string, status int, raw []byte, out any) error {
	var env envelope
	envErr := json.Unmarshal(raw, &env)

	switch {
	case status == http.StatusUnauthorized && req.auth:
		if err := c.tokens.Revoke(context.WithoutCancel(ctx), token); err != nil {
			c.logger.WithError(err).Warn("Remote.Request.EndSessionFailed")
		}
		return fmt.Errorf("remote %s: %w", req.op, ErrUnauthorized)
	case status == http.StatusNotFound:
		return fmt.Errorf("remote %s: %w", req.op, ErrNotFound)
	case status < 200 || status > 299:
		message := env.Message
		if envErr != nil {
			message = strings.TrimSpace(string(raw))
		}
		return &APIError{Op: req.op, StatusCode: status, Message: message}
	}

	if envErr != nil {
		c.dump(req.op, raw)
		return &DecodeError{Op: req.op, Err: envErr}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{Op: req.op, StatusCode: status, Message: env.Message}
	}
	if out == nil {
		return nil
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		if req.dataOptional {
			return nil
		}
		return &DecodeError{Op: req.op, Err: errors.New("response has no data")}
	}
	if err := decodeData(env.Data, out); err != nil {
		c.dump(req.op, raw)
		return &DecodeError{Op: req.op, Err: err}
	}
	return nil
}

func decodeData(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	if v, ok := out.(validator); ok {
		return v.validate()
	}
	return nil
}

func (c *Client) dump(op string, raw []byte) {
	if !c.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	c.logger.WithField("op", op).Debugf("Remote.Response.Undecodable\n%s", spew.Sdump(raw))
}
