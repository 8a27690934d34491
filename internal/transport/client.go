package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/metal-toolbox/assetctl/internal/app"
	"github.com/metal-toolbox/assetctl/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	pkgName = "internal/transport"

	// RequestIDHeader carries a generated identifier to correlate client and backend logs.
	RequestIDHeader = "X-Request-Id"
)

// Request is a single call to the asset API.
type Request struct {
	// Operation names the call in logs and metrics, the path is not used as it includes identifiers.
	Operation string
	Method    string
	// Path is relative to the configured endpoint.
	Path  string
	Query url.Values
	// Body when not nil is sent JSON encoded.
	Body any
}

// Response is the raw response of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is the HTTP transport to the asset API.
type Client struct {
	client        *retryablehttp.Client
	endpoint      *url.URL
	customHeaders map[string]string
	authToken     string
	logger        *logrus.Entry
}

// New validates the configuration and returns a retryable HTTP client with Otel,
// with OAuth wrapped in unless its disabled.
func New(ctx context.Context, cfg *app.Configuration, logger *logrus.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrConfig, "configuration is nil")
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(ErrConfig, "error in endpoint URL: "+err.Error())
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = app.DefaultTimeout
	}

	// init retryable http client
	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryMax = cfg.RetryMax

	// return the response on exhausted retries so the error body can be read
	retryableClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// disable default debug logging on the retryable client
	if logger.Level < logrus.DebugLevel {
		retryableClient.Logger = nil
	} else {
		retryableClient.Logger = logger
	}

	// log hook for 5xx errors since they are otherwise only surfaced as a message to the user
	retryableClient.ResponseLogHook = func(_ retryablehttp.Logger, r *http.Response) {
		if r.StatusCode >= http.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"url":        r.Request.URL.String(),
				"statusCode": r.StatusCode,
			}).Warn("asset API returned server error")
		}
	}

	// set retryable HTTP client to be the otel http client to collect telemetry,
	// requests taking longer than timeout value are canceled.
	retryableClient.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}

	if cfg.OAuthOptions != nil && !cfg.OAuthOptions.Disable {
		if err := wrapOAuth(ctx, retryableClient.HTTPClient, cfg.OAuthOptions); err != nil {
			return nil, errors.Wrap(ErrConfig, "oauth setup error: "+err.Error())
		}
	}

	return &Client{
		client:        retryableClient,
		endpoint:      endpoint,
		authToken:     cfg.AuthToken,
		customHeaders: cfg.CustomHeaders,
		logger:        logger.WithField("component", "transport"),
	}, nil
}

// wrapOAuth wraps the OAuth client credentials transport in the given http client.
func wrapOAuth(ctx context.Context, client *http.Client, cfg *app.OAuthOptions) error {
	// setup oidc provider
	provider, err := oidc.NewProvider(ctx, cfg.IssuerEndpoint)
	if err != nil {
		return err
	}

	clientID := app.DefaultOidcClientID
	if cfg.ClientID != "" {
		clientID = cfg.ClientID
	}

	// setup oauth configuration
	oauthConfig := clientcredentials.Config{
		ClientID:       clientID,
		ClientSecret:   cfg.ClientSecret,
		TokenURL:       provider.Endpoint().TokenURL,
		Scopes:         cfg.ClientScopes,
		EndpointParams: url.Values{"audience": []string{cfg.AudienceEndpoint}},
	}

	// wrap OAuth transport, cookie jar in the otel transport
	oAuthclient := oauthConfig.Client(ctx)

	client.Transport = otelhttp.NewTransport(oAuthclient.Transport)
	client.Jar = oAuthclient.Jar

	return nil
}

// Do issues the request and returns the response when the backend returned a 2xx status.
//
// Any failure is returned as an *Error.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	ctx, span := otel.Tracer(pkgName).Start(
		ctx,
		"assets."+r.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", r.Method)),
	)
	defer span.End()

	labels := metrics.AddLabels(
		prometheus.Labels{"operation": r.Operation},
		prometheus.Labels{"method": r.Method},
	)

	metrics.APIRequestsTotal.With(labels).Inc()

	startTS := time.Now()
	defer func() {
		metrics.APIQueryTimeSummary.With(labels).Observe(time.Since(startTS).Seconds())
	}()

	resp, err := c.do(ctx, r)
	if err != nil {
		kind := KindNetwork
		if te, ok := AsError(err); ok {
			kind = te.Kind
		}

		metrics.APIQueryErrorCount.With(prometheus.Labels{"operation": r.Operation, "kind": string(kind)}).Inc()

		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	return resp, nil
}

func (c *Client) do(ctx context.Context, r *Request) (*Response, error) {
	endpoint := c.endpoint.JoinPath(r.Path)
	if len(r.Query) > 0 {
		endpoint.RawQuery = r.Query.Encode()
	}

	var payload []byte

	if r.Body != nil {
		var err error

		payload, err = json.Marshal(r.Body)
		if err != nil {
			return nil, &Error{Kind: KindRequest, Message: "error encoding request body", Err: err}
		}
	}

	var body interface{}
	if len(payload) > 0 {
		body = payload
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, endpoint.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: "error building request", Err: err}
	}

	requestID := uuid.New().String()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	for key, value := range c.customHeaders {
		req.Header.Add(key, value)
	}

	logger := c.logger.WithFields(logrus.Fields{
		"operation": r.Operation,
		"method":    r.Method,
		"url":       endpoint.String(),
		"requestID": requestID,
	})

	logger.Trace("asset API request")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.WithError(err).Debug("asset API request failed")

		return nil, &Error{Kind: KindNetwork, Message: "unable to reach the asset API", Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: "error reading response body", Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := messageFromBody(respBody, resp.StatusCode)

		logger.WithFields(logrus.Fields{
			"statusCode": resp.StatusCode,
			"message":    msg,
		}).Debug("asset API returned error")

		return nil, &Error{Kind: KindHTTP, StatusCode: resp.StatusCode, Message: msg}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// DecodeJSON unmarshals the response body into v.
func DecodeJSON(resp *Response, v any) error {
	if resp == nil || len(resp.Body) == 0 {
		return &Error{Kind: KindDecode, Message: "empty response body"}
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &Error{Kind: KindDecode, StatusCode: resp.StatusCode, Message: "error decoding response body", Err: err}
	}

	return nil
}
