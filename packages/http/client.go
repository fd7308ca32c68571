package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/diplomat/packages/auth"
	"github.com/abdul-hamid-achik/diplomat/packages/dispatch"
	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/history"
	"github.com/abdul-hamid-achik/diplomat/packages/metrics"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
	// RequestIDHeader carries the id recorded in handler.Info.RequestID.
	RequestIDHeader = "X-Request-Id"
)

// DefaultUserAgent is sent unless WithUserAgent or SetUserAgent says otherwise.
var DefaultUserAgent = "diplomat/1 (+https://github.com/abdul-hamid-achik/diplomat)"

// Client issues requests against one destination and dispatches each
// classified response. A Client handles one request at a time.
type Client struct {
	destination string
	classifier  handler.Classifier
	registry    *dispatch.Registry

	httpClient *http.Client
	custom     bool
	timeout    time.Duration
	insecure   bool
	multipart  bool
	userAgent  string
	headers    map[string]string
	baseDir    string

	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Collector
	history *history.Store

	authorizer auth.Authorizer

	call string
	code int
}

type ClientOption func(*Client)

// NewClient binds a client to destination and classifier. A malformed
// destination or a nil classifier is reported before any request is made.
func NewClient(destination string, classifier handler.Classifier, opts ...ClientOption) (*Client, error) {
	dest, err := ParseDestination(destination)
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, ErrNoClassifier
	}

	c := &Client{
		destination: dest,
		classifier:  classifier,
		registry:    dispatch.NewRegistry(),
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.custom {
		c.httpClient = c.buildHTTPClient()
	}

	return c, nil
}

func (c *Client) buildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if c.insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInsecure disables TLS certificate and host verification
func WithInsecure(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecure = insecure
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders sets headers sent with every request
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithMultipart sends body data as multipart/form-data even without files
func WithMultipart(multipart bool) ClientOption {
	return func(c *Client) {
		c.multipart = multipart
	}
}

// WithBaseDir resolves relative upload paths against dir and refuses paths
// that escape it.
func WithBaseDir(dir string) ClientOption {
	return func(c *Client) {
		c.baseDir = dir
	}
}

// WithRateLimit spaces requests to at most perSecond per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Collector) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHistory records every request cycle in store.
func WithHistory(store *history.Store) ClientOption {
	return func(c *Client) {
		c.history = store
	}
}

// WithAuth sets the Authorization header of every request from a.
func WithAuth(a auth.Authorizer) ClientOption {
	return func(c *Client) {
		c.authorizer = a
	}
}

// WithHTTPClient replaces the transport client. Timeout and insecure
// settings are then the caller's responsibility.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
			c.custom = true
		}
	}
}

// AddHeaders merges headers into the request headers.
func (c *Client) AddHeaders(headers map[string]string) *Client {
	for k, v := range headers {
		c.headers[k] = v
	}
	return c
}

// SetHeaders replaces the request headers.
func (c *Client) SetHeaders(headers map[string]string) *Client {
	c.headers = make(map[string]string, len(headers))
	return c.AddHeaders(headers)
}

func (c *Client) SetUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// SetInsecure toggles TLS verification for subsequent requests.
func (c *Client) SetInsecure(insecure bool) *Client {
	c.insecure = insecure
	if !c.custom {
		c.httpClient = c.buildHTTPClient()
	}
	return c
}

func (c *Client) SetMultipart(multipart bool) *Client {
	c.multipart = multipart
	return c
}

// SetClassifier replaces the classifier used for subsequent responses.
func (c *Client) SetClassifier(classifier handler.Classifier) (*Client, error) {
	if classifier == nil {
		return c, ErrNoClassifier
	}
	c.classifier = classifier
	return c, nil
}

// OnAny registers the catch-all handler, used when no outcome handler applies.
func (c *Client) OnAny(h dispatch.Handler, extra ...any) *Client {
	c.registry.OnAny(h, extra...)
	return c
}

func (c *Client) OnError(h dispatch.Handler, extra ...any) *Client {
	c.registry.OnError(h, extra...)
	return c
}

func (c *Client) OnFailure(h dispatch.Handler, extra ...any) *Client {
	c.registry.OnFailure(h, extra...)
	return c
}

func (c *Client) OnSuccess(h dispatch.Handler, extra ...any) *Client {
	c.registry.OnSuccess(h, extra...)
	return c
}

// ResetHandlersAfterRequest controls whether registrations are cleared once
// a request dispatched to one of them. Enabled by default.
func (c *Client) ResetHandlersAfterRequest(reset bool) *Client {
	c.registry.ResetAfterDispatch(reset)
	return c
}

func (c *Client) Destination() string {
	return c.destination
}

func (c *Client) Classifier() handler.Classifier {
	return c.classifier
}

// Call returns the curl equivalent of the last request.
func (c *Client) Call() string {
	return c.call
}

// Code returns the status code of the last response, 0 if none arrived.
func (c *Client) Code() int {
	return c.code
}

// Get sends data as the query string.
func (c *Client) Get(ctx context.Context, page string, data Values) (any, error) {
	return c.send(ctx, http.MethodGet, page, data, nil)
}

func (c *Client) Head(ctx context.Context, page string) (any, error) {
	return c.send(ctx, http.MethodHead, page, nil, nil)
}

func (c *Client) Options(ctx context.Context, page string) (any, error) {
	return c.send(ctx, http.MethodOptions, page, nil, nil)
}

func (c *Client) Delete(ctx context.Context, page string, data Values) (any, error) {
	return c.send(ctx, http.MethodDelete, page, data, nil)
}

func (c *Client) Post(ctx context.Context, page string, data Values, files Files) (any, error) {
	return c.send(ctx, http.MethodPost, page, data, files)
}

func (c *Client) Put(ctx context.Context, page string, data Values, files Files) (any, error) {
	return c.send(ctx, http.MethodPut, page, data, files)
}

func (c *Client) Patch(ctx context.Context, page string, data Values, files Files) (any, error) {
	return c.send(ctx, http.MethodPatch, page, data, files)
}

func (c *Client) Trace(ctx context.Context, page string, data Values, files Files) (any, error) {
	return c.send(ctx, http.MethodTrace, page, data, files)
}

// Do sends a request with an arbitrary method. The result is the value of
// the dispatched handler or, when none applied, the client itself.
func (c *Client) Do(ctx context.Context, method, page string, data Values, files Files) (any, error) {
	return c.send(ctx, strings.ToUpper(method), page, data, files)
}

func (c *Client) send(ctx context.Context, method, page string, data Values, files Files) (any, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req := c.newRequest(method, page, data, files)
	if c.authorizer != nil {
		authorization, err := c.authorizer.Authorization(ctx)
		if err != nil {
			return nil, fmt.Errorf("authorizing request: %w", err)
		}
		req.headers["Authorization"] = authorization
	}
	c.call = curlCall(req)

	info := handler.Info{
		RequestID: uuid.NewString(),
		Method:    method,
		URL:       req.url,
	}

	c.logger.Debug("sending request",
		slog.String("method", method),
		slog.String("url", req.url),
		slog.String("request_id", info.RequestID))

	raw, err := c.roundTrip(ctx, req, info)
	if err != nil {
		return nil, err
	}
	c.code = raw.StatusCode

	if err := c.classifier.Initialize(raw); err != nil {
		return nil, fmt.Errorf("initializing classifier: %w", err)
	}

	outcome := handler.Classify(c.classifier)
	c.logger.Debug("response classified",
		slog.String("request_id", info.RequestID),
		slog.Int("code", raw.StatusCode),
		slog.String("outcome", outcome.String()),
		slog.Duration("duration", raw.Info.Duration))

	c.observe(ctx, raw, outcome)

	decision, err := c.registry.Dispatch(c.classifier)
	if err != nil {
		return nil, fmt.Errorf("%s handler: %w", decision.Slot, err)
	}

	c.logger.Debug("dispatched",
		slog.String("request_id", info.RequestID),
		slog.String("slot", decision.Slot.String()))

	if !decision.Dispatched() {
		return c, nil
	}
	return decision.Result, nil
}

func (c *Client) newRequest(method, page string, data Values, files Files) *request {
	req := &request{
		method:    method,
		url:       joinPage(c.destination, page),
		headers:   make(map[string]string, len(c.headers)),
		userAgent: c.userAgent,
		files:     files,
		multipart: sendsBody(method) && (c.multipart || len(files) > 0),
		insecure:  c.insecure,
	}
	for k, v := range c.headers {
		req.headers[k] = v
	}

	if sendsBody(method) {
		if req.multipart {
			req.fields = data.Fields()
		} else {
			req.form = data.Encode()
		}
	} else if query := data.Encode(); query != "" {
		sep := "?"
		if strings.Contains(req.url, "?") {
			sep = "&"
		}
		req.url += sep + query
	}

	return req
}

// roundTrip performs the request. Transport failures come back as a Raw with
// a zero status; only request construction errors are returned.
func (c *Client) roundTrip(ctx context.Context, req *request, info handler.Info) (handler.Raw, error) {
	var (
		body        io.Reader
		contentType string
	)

	if req.multipart {
		buf, ct, err := buildMultipartBody(req.fields, req.files, c.baseDir)
		if err != nil {
			return handler.Raw{}, err
		}
		body, contentType = buf, ct
	} else if req.form != "" {
		body = bytes.NewBufferString(req.form)
		contentType = "application/x-www-form-urlencoded"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return handler.Raw{}, err
	}

	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.userAgent != "" {
		httpReq.Header.Set("User-Agent", req.userAgent)
	}
	httpReq.Header.Set(RequestIDHeader, info.RequestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	info.Duration = time.Since(start)

	if err != nil {
		c.logger.Warn("transport failure",
			slog.String("request_id", info.RequestID),
			slog.String("error", err.Error()))
		return transportFailure(err, info, c.call), nil
	}

	raw, err := readResponse(httpResp, info, c.call)
	if err != nil {
		return transportFailure(err, info, c.call), nil
	}
	return raw, nil
}

func (c *Client) observe(ctx context.Context, raw handler.Raw, outcome handler.Outcome) {
	if c.metrics != nil {
		c.metrics.Observe(raw.Info.Method, outcome.String(), raw.Info.Duration)
	}

	if c.history != nil {
		err := c.history.Record(ctx, history.Entry{
			RequestID: raw.Info.RequestID,
			Method:    raw.Info.Method,
			URL:       raw.Info.URL,
			Call:      raw.Call,
			Code:      raw.StatusCode,
			Outcome:   outcome.String(),
			Duration:  raw.Info.Duration,
		})
		if err != nil {
			c.logger.Warn("history not recorded",
				slog.String("request_id", raw.Info.RequestID),
				slog.String("error", err.Error()))
		}
	}
}

func joinPage(destination, page string) string {
	if page == "" || strings.HasPrefix(page, "/") || strings.HasPrefix(page, "?") {
		return destination + page
	}
	return destination + "/" + page
}
