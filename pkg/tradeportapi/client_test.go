package tradeportapi

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
	"github.com/tradeport/tradeport-go/pkg/auth"
	"github.com/tradeport/tradeport-go/pkg/testutil"
)

// 32 zero bytes
const testSeed = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
const testKeyID = "test-key-id"

func newTestClient(t *testing.T, baseURL string) *RestClient {
	config := DefaultConfig()
	config.KeyID = testKeyID
	config.PrivateSeed = testSeed
	config.BaseURL = baseURL

	client, err := NewClientWithConfig(config)
	require.NoError(t, err)

	// keep test failures fast
	client.Executor().MaxRetries = 0
	return client
}

func testPublicKey(t *testing.T) ed25519.PublicKey {
	seed, err := auth.DecodeBase64(testSeed)
	require.NoError(t, err)
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func TestRequestSigning(t *testing.T) {
	pub := testPublicKey(t)

	var served bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true

		keyID := r.Header.Get("key-id")
		signature := r.Header.Get("signature")
		timestamp := r.Header.Get("timestamp")
		assert.Equal(t, testKeyID, keyID)
		assert.NotEmpty(t, signature)

		ts, err := strconv.ParseInt(timestamp, 10, 64)
		require.NoError(t, err)
		assert.True(t, auth.IsTimestampFresh(ts, auth.DefaultTimestampWindow))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		path := r.URL.EscapedPath()
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}
		payload := auth.BuildSignaturePayload(keyID, ts, path, r.Method, string(body))

		sig, err := auth.DecodeBase64(signature)
		require.NoError(t, err)
		assert.True(t, ed25519.Verify(pub, []byte(payload), sig),
			"signature must cover keyID+timestamp+path+METHOD+body")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	t.Run("GET with query", func(t *testing.T) {
		params := url.Values{}
		params.Add("symbol", "BTCUSD")

		resp, err := client.Request(ctx, http.MethodGet, "/api/v1/orders", params, nil)
		assert.NoError(t, err)
		assert.True(t, served)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("POST with json body", func(t *testing.T) {
		payload := map[string]interface{}{"symbol": "BTCUSD", "side": "buy"}
		resp, err := client.Request(ctx, http.MethodPost, "/api/v1/orders", nil, payload)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("path with a percent-encoded segment", func(t *testing.T) {
		// the signed path must stay byte-identical to the request line, so
		// the encoded form is what gets signed
		resp, err := client.Request(ctx, http.MethodDelete, "/api/v1/orders/ord%20one", nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRequestWithoutCredentials(t *testing.T) {
	client := NewClient()

	_, err := client.Request(context.Background(), http.MethodGet, "/api/v1/account", nil, nil)
	require.Error(t, err)

	var authErr *apierrors.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestPublicRequestIsUnsigned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("key-id"))
		assert.Empty(t, r.Header.Get("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"serverTime":1700000000000}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	serverTime, err := client.MarketDataService.GetServerTime(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1700000000000), serverTime)
}

func TestRequestRetriesAdmission(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.KeyID = testKeyID
	config.PrivateSeed = testSeed
	config.BaseURL = server.URL
	config.RateLimit.MaxRequests = 1
	config.RateLimit.BurstCapacity = 1
	config.RateLimit.Window = 50 * time.Millisecond

	client, err := NewClientWithConfig(config)
	require.NoError(t, err)
	client.Executor().MaxRetries = 2
	client.Executor().MaxDelay = 100 * time.Millisecond

	ctx := context.Background()

	// the first call drains the bucket, the second waits out the refill
	_, err = client.Request(ctx, http.MethodGet, "/api/v1/account", nil, nil)
	assert.NoError(t, err)

	_, err = client.Request(ctx, http.MethodGet, "/api/v1/account", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestCastPayload(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		body, err := castPayload(nil)
		assert.NoError(t, err)
		assert.Nil(t, body)
	})

	t.Run("string passes through", func(t *testing.T) {
		body, err := castPayload(`{"raw":1}`)
		assert.NoError(t, err)
		assert.Equal(t, []byte(`{"raw":1}`), body)
	})

	t.Run("bytes pass through", func(t *testing.T) {
		body, err := castPayload([]byte("raw"))
		assert.NoError(t, err)
		assert.Equal(t, []byte("raw"), body)
	})

	t.Run("struct is json encoded", func(t *testing.T) {
		body, err := castPayload(struct {
			Symbol string `json:"symbol"`
		}{Symbol: "BTCUSD"})
		assert.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "BTCUSD", decoded["symbol"])
	})
}

func TestClientIntegration(t *testing.T) {
	keyID, seed, ok := testutil.IntegrationTestConfigured(t, "TRADEPORT")
	if !ok {
		t.Skip("TRADEPORT_* env vars are not configured")
		return
	}

	client := NewClient()
	require.NoError(t, client.Auth(keyID, seed))
	ctx := context.Background()

	t.Run("GetBalances", func(t *testing.T) {
		balances, err := client.AccountService.GetBalances(ctx)
		assert.NoError(t, err)
		t.Logf("balances: %+v", balances)
	})

	t.Run("GetMarkets", func(t *testing.T) {
		markets, err := client.MarketDataService.GetMarkets(ctx)
		assert.NoError(t, err)
		t.Logf("markets: %+v", markets)
	})
}
