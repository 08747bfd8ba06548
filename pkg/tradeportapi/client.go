// Package tradeportapi implements the typed REST client for the Tradeport
// exchange API: Ed25519 request signing, token-bucket admission with bounded
// retry, and normalization of responses and failures into the typed errors
// in pkg/apierrors.
package tradeportapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/c9s/requestgen"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
	"github.com/tradeport/tradeport-go/pkg/auth"
	"github.com/tradeport/tradeport-go/pkg/ratelimit"
)

const (
	// ProductionAPIURL is the official Tradeport REST endpoint.
	ProductionAPIURL = "https://api.tradeport.exchange"

	// SandboxAPIURL serves the paper-trading environment.
	SandboxAPIURL = "https://api.sandbox.tradeport.exchange"

	UserAgent = "tradeport-go/1.0"

	defaultHTTPTimeout = 15 * time.Second
)

var log = logrus.WithField("exchange", "tradeport")

type RestClient struct {
	requestgen.BaseAPIClient

	keyID string
	key   *auth.KeyHandle

	bucket   *ratelimit.TokenBucket
	executor *ratelimit.Executor

	debug bool

	AccountService    *AccountService
	MarketDataService *MarketDataService
	TradeService      *TradeService
}

// NewClient returns a client against the production endpoint with default
// rate limits and no credentials. Call Auth before issuing signed requests.
func NewClient() *RestClient {
	client, err := newClient(DefaultConfig())
	if err != nil {
		// the default config always parses
		panic(err)
	}
	return client
}

// NewClientWithConfig validates config eagerly, reporting every violation in
// one ConfigurationError, then builds the client with its own token bucket.
func NewClientWithConfig(config *Config) (*RestClient, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return newClient(config)
}

func newClient(config *Config) (*RestClient, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}

	client := &RestClient{
		BaseAPIClient: requestgen.BaseAPIClient{
			BaseURL: u,
			HttpClient: &http.Client{
				Timeout: config.Timeout,
			},
		},
		debug: config.Debug,
	}

	if config.KeyID != "" {
		if err := client.Auth(config.KeyID, config.PrivateSeed); err != nil {
			return nil, err
		}
	}

	client.bucket = ratelimit.NewTokenBucket(config.RateLimit)
	client.executor = ratelimit.NewExecutor(client.bucket)

	client.AccountService = &AccountService{client: client}
	client.MarketDataService = &MarketDataService{client: client}
	client.TradeService = &TradeService{client: client}
	return client, nil
}

// Auth imports the base64 key seed and stores only the resulting key handle.
// The seed string is not retained.
func (c *RestClient) Auth(keyID, base64Seed string) error {
	key, err := auth.ImportPrivateKey(base64Seed)
	if err != nil {
		return err
	}

	c.keyID = keyID
	c.key = key
	return nil
}

// Bucket exposes the client's admission bucket for inspection and operator
// reset.
func (c *RestClient) Bucket() *ratelimit.TokenBucket {
	return c.bucket
}

// Executor exposes the retry policy around the admission gate so callers can
// tune MaxRetries and the backoff delays.
func (c *RestClient) Executor() *ratelimit.Executor {
	return c.executor
}

// NewAuthenticatedRequest creates a signed http request. The signature covers
// keyID + timestamp + path(+query) + METHOD + body, concatenated with no
// separators; the result travels in the key-id / signature / timestamp
// headers.
func (c *RestClient) NewAuthenticatedRequest(
	ctx context.Context, method, refURL string, params url.Values, payload interface{},
) (*http.Request, error) {
	if c.keyID == "" || c.key == nil {
		return nil, &apierrors.AuthenticationError{Message: "api credentials are not configured"}
	}

	rel, err := url.Parse(refURL)
	if err != nil {
		return nil, err
	}

	if params != nil {
		rel.RawQuery = params.Encode()
	}

	pathURL := c.BaseURL.ResolveReference(rel)
	// sign the escaped form so the signed bytes match the request line on the
	// wire even when a path segment carries percent-encoded characters
	path := pathURL.EscapedPath()
	if rel.RawQuery != "" {
		path += "?" + rel.RawQuery
	}

	body, err := castPayload(payload)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Unix()
	signPayload := auth.BuildSignaturePayload(c.keyID, timestamp, path, method, string(body))
	signature, err := c.key.Sign(signPayload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, pathURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("key-id", c.keyID)
	req.Header.Add("signature", signature)
	req.Header.Add("timestamp", strconv.FormatInt(timestamp, 10))
	return req, nil
}

// NewRequest creates an unsigned request for public endpoints.
func (c *RestClient) NewRequest(
	ctx context.Context, method, refURL string, params url.Values, payload interface{},
) (*http.Request, error) {
	rel, err := url.Parse(refURL)
	if err != nil {
		return nil, err
	}

	if params != nil {
		rel.RawQuery = params.Encode()
	}

	body, err := castPayload(payload)
	if err != nil {
		return nil, err
	}

	pathURL := c.BaseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, pathURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	return req, nil
}

// Request issues one signed call through the admission gate: the executor
// retries throttling, and each admitted attempt re-signs with a fresh
// timestamp before dispatch.
func (c *RestClient) Request(
	ctx context.Context, method, refURL string, params url.Values, payload interface{},
) (*Response, error) {
	var response *Response
	err := c.executor.Do(ctx, func(ctx context.Context) error {
		req, err2 := c.NewAuthenticatedRequest(ctx, method, refURL, params, payload)
		if err2 != nil {
			return err2
		}

		response, err2 = c.sendRequest(req)
		return err2
	})
	return response, err
}

// PublicRequest issues one unsigned call through the same admission gate, so
// public market-data polling shares the client's request budget.
func (c *RestClient) PublicRequest(
	ctx context.Context, method, refURL string, params url.Values,
) (*Response, error) {
	var response *Response
	err := c.executor.Do(ctx, func(ctx context.Context) error {
		req, err2 := c.NewRequest(ctx, method, refURL, params, nil)
		if err2 != nil {
			return err2
		}

		response, err2 = c.sendRequest(req)
		return err2
	})
	return response, err
}

// castPayload resolves the request body to its wire form: nil stays empty,
// strings and byte slices pass through unchanged, everything else is JSON
// encoded.
func castPayload(payload interface{}) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}

	switch v := payload.(type) {
	case string:
		return []byte(v), nil

	case []byte:
		return v, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "can not serialize request payload of type %T", payload)
	}
	return b, nil
}

// scrubCredentials removes credential substrings from transport error
// messages before they surface. The seed is never retained so only the key
// id can appear.
func (c *RestClient) scrubCredentials(msg string) string {
	if c.keyID != "" {
		msg = strings.ReplaceAll(msg, c.keyID, "***")
	}
	return msg
}
