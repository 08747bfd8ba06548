// Package tradeport is the high-level facade over the raw REST client: domain
// types, per-endpoint-group pacing for polling, and idempotent-retry helpers.
package tradeport

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
	"github.com/tradeport/tradeport-go/pkg/tradeportapi"
)

var log = logrus.WithField("exchange", "tradeport")

var (
	// queryAccountRateLimiter paces account polling below the documented
	// account-group limit.
	queryAccountRateLimiter = rate.NewLimiter(rate.Every(time.Second/5), 5)

	// queryTickerRateLimiter paces public ticker polling.
	queryTickerRateLimiter = rate.NewLimiter(rate.Every(time.Second/10), 5)

	// queryMarketRateLimiter paces the markets listing, which rarely changes.
	queryMarketRateLimiter = rate.NewLimiter(rate.Every(time.Second/2), 2)

	// queryOrderRateLimiter paces open-order polling.
	queryOrderRateLimiter = rate.NewLimiter(rate.Every(time.Second/10), 5)
)

type Exchange struct {
	client *tradeportapi.RestClient
}

// New builds an exchange facade with its own authenticated client.
func New(keyID, base64Seed string) (*Exchange, error) {
	config := tradeportapi.DefaultConfig()
	config.KeyID = keyID
	config.PrivateSeed = base64Seed

	client, err := tradeportapi.NewClientWithConfig(config)
	if err != nil {
		return nil, err
	}
	return &Exchange{client: client}, nil
}

// NewWithClient wraps an existing client, typically one built from
// ConfigFromEnv.
func NewWithClient(client *tradeportapi.RestClient) *Exchange {
	return &Exchange{client: client}
}

func (e *Exchange) Client() *tradeportapi.RestClient {
	return e.client
}

func (e *Exchange) QueryAccount(ctx context.Context) (*Account, error) {
	if err := queryAccountRateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	account, err := e.client.AccountService.GetAccount(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := e.client.AccountService.GetBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &Account{
		AccountID:    account.AccountID,
		MakerFeeRate: account.MakerFeeRate,
		TakerFeeRate: account.TakerFeeRate,
		CanTrade:     account.CanTrade,
		Balances:     toGlobalBalances(balances),
	}, nil
}

func (e *Exchange) QueryTicker(ctx context.Context, symbol string) (*Ticker, error) {
	if err := queryTickerRateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	ticker, err := e.client.MarketDataService.GetTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return toGlobalTicker(ticker), nil
}

func (e *Exchange) QueryMarkets(ctx context.Context) (MarketMap, error) {
	if err := queryMarketRateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	markets, err := e.client.MarketDataService.GetMarkets(ctx)
	if err != nil {
		return nil, err
	}

	marketMap := MarketMap{}
	for _, m := range markets {
		marketMap[m.Symbol] = toGlobalMarket(m)
	}
	return marketMap, nil
}

func (e *Exchange) QueryOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	if err := queryOrderRateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiOrders, err := e.client.TradeService.ListOpenOrders(ctx, symbol)
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(apiOrders))
	for i := range apiOrders {
		orders = append(orders, *toGlobalOrder(&apiOrders[i]))
	}
	return orders, nil
}

// SubmitOrder places one order. A client order id is generated when the
// caller did not provide one, so an ambiguous failure can be resolved by
// re-submitting the same id.
func (e *Exchange) SubmitOrder(ctx context.Context, order SubmitOrder) (*Order, error) {
	clientOrderID := order.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	placed, err := e.client.TradeService.PlaceOrder(ctx, &tradeportapi.PlaceOrderRequest{
		Symbol:        order.Symbol,
		Side:          order.Side,
		Type:          order.Type,
		Price:         order.Price,
		Quantity:      order.Quantity,
		ClientOrderID: clientOrderID,
		TimeInForce:   order.TimeInForce,
	})
	if err != nil {
		return nil, err
	}

	return toGlobalOrder(placed), nil
}

// CancelOrders cancels the given orders, attempting every one and
// aggregating the failures.
func (e *Exchange) CancelOrders(ctx context.Context, orders ...Order) (errs error) {
	for _, order := range orders {
		if order.OrderID == "" {
			errs = multierr.Append(errs, errors.New("can not cancel order with empty order id"))
			continue
		}

		if _, err := e.client.TradeService.CancelOrder(ctx, order.OrderID); err != nil {
			log.WithError(err).Errorf("failed to cancel order %s", order.OrderID)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// IsMarketActive is a best-effort probe: it deliberately converts any error
// into false so callers can gate on it without error handling. Use
// QueryMarkets when the failure reason matters.
func (e *Exchange) IsMarketActive(ctx context.Context, symbol string) bool {
	markets, err := e.QueryMarkets(ctx)
	if err != nil {
		if apierrors.IsNetwork(err) {
			log.WithError(err).Warnf("market lookup for %s failed on transport, assuming inactive", symbol)
		} else {
			log.WithError(err).Debugf("market lookup for %s failed", symbol)
		}
		return false
	}

	market, ok := markets[symbol]
	return ok && market.Active
}
