package tradeport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeport/tradeport-go/pkg/tradeportapi"
)

// 32 zero bytes
const testSeed = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

func newTestExchange(t *testing.T, handler http.Handler) (*Exchange, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := tradeportapi.DefaultConfig()
	config.KeyID = "test-key"
	config.PrivateSeed = testSeed
	config.BaseURL = server.URL

	client, err := tradeportapi.NewClientWithConfig(config)
	require.NoError(t, err)
	client.Executor().MaxRetries = 0

	return NewWithClient(client), server
}

func marketsHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/markets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]tradeportapi.Market{
			{Symbol: "BTCUSD", BaseCurrency: "BTC", QuoteCurrency: "USD", Active: true},
			{Symbol: "DOGEUSD", BaseCurrency: "DOGE", QuoteCurrency: "USD", Active: false},
		})
	})
}

func TestQueryMarkets(t *testing.T) {
	ex, _ := newTestExchange(t, marketsHandler(t))

	markets, err := ex.QueryMarkets(context.Background())
	require.NoError(t, err)
	assert.Len(t, markets, 2)
	assert.True(t, markets["BTCUSD"].Active)
	assert.Equal(t, "BTC", markets["BTCUSD"].BaseCurrency)
}

func TestIsMarketActive(t *testing.T) {
	t.Run("active and inactive symbols", func(t *testing.T) {
		ex, _ := newTestExchange(t, marketsHandler(t))
		ctx := context.Background()

		assert.True(t, ex.IsMarketActive(ctx, "BTCUSD"))
		assert.False(t, ex.IsMarketActive(ctx, "DOGEUSD"))
		assert.False(t, ex.IsMarketActive(ctx, "NOPEUSD"))
	})

	t.Run("any error becomes false", func(t *testing.T) {
		ex, _ := newTestExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		assert.False(t, ex.IsMarketActive(context.Background(), "BTCUSD"))
	})
}

func TestQueryAccount(t *testing.T) {
	ex, _ := newTestExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/account":
			_ = json.NewEncoder(w).Encode(tradeportapi.Account{
				AccountID:    "acct-1",
				MakerFeeRate: decimal.RequireFromString("0.001"),
				TakerFeeRate: decimal.RequireFromString("0.002"),
				CanTrade:     true,
			})
		case "/api/v1/balances":
			_ = json.NewEncoder(w).Encode([]tradeportapi.Balance{
				{Currency: "BTC", Available: decimal.RequireFromString("0.5"), Locked: decimal.RequireFromString("0.1")},
				{Currency: "USD", Available: decimal.NewFromInt(1000)},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	account, err := ex.QueryAccount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "acct-1", account.AccountID)
	assert.True(t, account.CanTrade)
	assert.Len(t, account.Balances, 2)

	btc := account.Balances["BTC"]
	assert.True(t, btc.Total().Equal(decimal.RequireFromString("0.6")))
}

func TestSubmitOrder(t *testing.T) {
	var received tradeportapi.PlaceOrderRequest

	ex, _ := newTestExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tradeportapi.Order{
			OrderID:       "o-1",
			ClientOrderID: received.ClientOrderID,
			Symbol:        received.Symbol,
			Side:          received.Side,
			Type:          received.Type,
			Price:         received.Price,
			Quantity:      received.Quantity,
			Status:        tradeportapi.OrderStatusNew,
			CreatedAt:     1700000000000,
		})
	}))

	t.Run("generates a client order id", func(t *testing.T) {
		order, err := ex.SubmitOrder(context.Background(), SubmitOrder{
			Symbol:   "BTCUSD",
			Side:     tradeportapi.SideBuy,
			Type:     tradeportapi.OrderTypeLimit,
			Price:    decimal.NewFromInt(42000),
			Quantity: decimal.RequireFromString("0.1"),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, order.ClientOrderID)
		_, err = uuid.Parse(order.ClientOrderID)
		assert.NoError(t, err, "generated client order id should be a uuid")
	})

	t.Run("keeps the caller's client order id", func(t *testing.T) {
		order, err := ex.SubmitOrder(context.Background(), SubmitOrder{
			Symbol:        "BTCUSD",
			Side:          tradeportapi.SideSell,
			Type:          tradeportapi.OrderTypeMarket,
			Quantity:      decimal.RequireFromString("0.1"),
			ClientOrderID: "my-id",
		})
		require.NoError(t, err)
		assert.Equal(t, "my-id", order.ClientOrderID)
	})
}

func TestCancelOrders(t *testing.T) {
	ex, _ := newTestExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/orders/good":
			_ = json.NewEncoder(w).Encode(tradeportapi.Order{OrderID: "good", Status: tradeportapi.OrderStatusCanceled})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{}`))
		}
	}))

	t.Run("all succeed", func(t *testing.T) {
		err := ex.CancelOrders(context.Background(), Order{OrderID: "good"})
		assert.NoError(t, err)
	})

	t.Run("failures are aggregated, every order attempted", func(t *testing.T) {
		err := ex.CancelOrders(context.Background(),
			Order{OrderID: "bad-1"},
			Order{OrderID: "good"},
			Order{OrderID: ""},
		)
		require.Error(t, err)
	})
}

func TestConvertOrder(t *testing.T) {
	apiOrder := &tradeportapi.Order{
		OrderID:       "o-1",
		ClientOrderID: "c-1",
		Symbol:        "BTCUSD",
		Side:          tradeportapi.SideBuy,
		Type:          tradeportapi.OrderTypeLimit,
		Price:         decimal.NewFromInt(42000),
		Quantity:      decimal.NewFromInt(1),
		Status:        tradeportapi.OrderStatusNew,
		CreatedAt:     1700000000000,
	}

	order := toGlobalOrder(apiOrder)
	assert.Equal(t, "o-1", order.OrderID)
	assert.Equal(t, int64(1700000000000), order.CreatedAt.UnixMilli())
}
