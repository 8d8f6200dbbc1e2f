// Package transport issues requests to the rental API with the caller's bearer token.
package transport

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

	"roomrental/config"
	"roomrental/utils"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"

	maxBodyBytes = 10 << 20
)

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Not Found".
	Status string
	Header http.Header
	Body   []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer is what repositories need from the transport.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Options configures a Client. Timeouts apply identically to every request.
type Options struct {
	BaseURL           string
	ConnectTimeout    time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	MaxRequestsPerMin int
	Breaker           BreakerSettings
	Logger            *zap.Logger
	Tracer            trace.Tracer
	// Base is the innermost RoundTripper. Defaults to a tuned http.Transport.
	Base http.RoundTripper
}

// OptionsFromConfig maps application config onto transport options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		BaseURL:           cfg.APIBaseURL,
		ConnectTimeout:    cfg.HTTPConnectTimeout,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Breaker: BreakerSettings{
			Enabled:     cfg.BreakerEnabled,
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		},
	}
}

// Client is the authenticated transport. It does not retry, refresh tokens or
// inspect response bodies.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	tracer  trace.Tracer
	logger  *zap.Logger
}

// New builds a Client that reads the bearer token from tokens on every request.
func New(tokens TokenSource, opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	logger := utils.OrNop(opts.Logger)
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("roomrental/transport")
	}

	inner := opts.Base
	if inner == nil {
		inner = newHTTPTransport(opts)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: &AuthRoundTripper{Source: tokens, Next: inner, Logger: logger},
			Timeout:   opts.ConnectTimeout + opts.WriteTimeout + opts.ReadTimeout,
		},
		limiter: newLimiter(opts.MaxRequestsPerMin),
		breaker: newBreaker("rental-api", opts.Breaker, logger),
		tracer:  tracer,
		logger:  logger,
	}, nil
}

// newHTTPTransport bounds connect by the dialer and write+read by the wait for
// response headers; the client timeout bounds the whole exchange.
func newHTTPTransport(opts Options) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = opts.ConnectTimeout
	t.ResponseHeaderTimeout = opts.WriteTimeout + opts.ReadTimeout
	return t
}

// Do sends req. Any HTTP status yields a Response; an error means the exchange
// itself failed (connection, timeout, unreadable response, open circuit).
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.breaker == nil {
		return c.send(ctx, req)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.send(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, &serverFault{resp: resp}
		}
		return resp, nil
	})
	var sf *serverFault
	switch {
	case errors.As(err, &sf):
		return sf.resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("service temporarily unavailable: %w", err)
	case err != nil:
		return nil, err
	}
	return out.(*Response), nil
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	httpReq, err := c.build(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	requestID := httpReq.Header.Get(HeaderRequestID)
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", httpReq.URL.String()),
		attribute.String("request.id", requestID),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("path", httpReq.URL.Path),
			zap.String("requestId", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))
	if httpResp.StatusCode >= 500 {
		span.SetStatus(codes.Error, httpResp.Status)
	}
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", httpReq.URL.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.String("requestId", requestID),
		zap.Duration("duration", time.Since(start)))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     reasonPhrase(httpResp),
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(req.Path, "/")})
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}
	return httpReq, nil
}

// reasonPhrase strips the numeric code from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
