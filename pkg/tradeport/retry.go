package tradeport

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

// maxQueryRetries bounds the UntilSuccessful helpers below.
var maxQueryRetries uint64 = 11

// generalBackoff retries op with exponential backoff until it succeeds, the
// retry budget runs out, or ctx is canceled. Authentication failures abort
// immediately since the credentials will not change between attempts. Only
// idempotent reads go through here; order placement is never wrapped.
func generalBackoff(ctx context.Context, op backoff.Operation) error {
	wrapped := func() error {
		err := op()
		if apierrors.IsAuthentication(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			maxQueryRetries),
		ctx))
}

func (e *Exchange) QueryAccountUntilSuccessful(ctx context.Context) (account *Account, err error) {
	var op = func() (err2 error) {
		account, err2 = e.QueryAccount(ctx)
		if err2 != nil {
			log.WithError(err2).Errorf("failed to query account")
		}

		return err2
	}

	err = generalBackoff(ctx, op)
	return account, err
}

func (e *Exchange) QueryTickerUntilSuccessful(ctx context.Context, symbol string) (ticker *Ticker, err error) {
	var op = func() (err2 error) {
		ticker, err2 = e.QueryTicker(ctx, symbol)
		return err2
	}

	err = generalBackoff(ctx, op)
	return ticker, err
}

func (e *Exchange) QueryOpenOrdersUntilSuccessful(ctx context.Context, symbol string) (orders []Order, err error) {
	var op = func() (err2 error) {
		orders, err2 = e.QueryOpenOrders(ctx, symbol)
		return err2
	}

	err = generalBackoff(ctx, op)
	return orders, err
}
