package tradeport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradeport/tradeport-go/pkg/tradeportapi"
)

type Balance struct {
	Currency  string
	Available decimal.Decimal
	Locked    decimal.Decimal
}

func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.Locked)
}

// BalanceMap is keyed by currency.
type BalanceMap map[string]Balance

type Account struct {
	AccountID    string
	MakerFeeRate decimal.Decimal
	TakerFeeRate decimal.Decimal
	CanTrade     bool
	Balances     BalanceMap
}

type Ticker struct {
	Symbol string
	Last   decimal.Decimal
	Bid    decimal.Decimal
	Ask    decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Volume decimal.Decimal
	Time   time.Time
}

type Market struct {
	Symbol        string
	BaseCurrency  string
	QuoteCurrency string
	MinQuantity   decimal.Decimal
	TickSize      decimal.Decimal
	StepSize      decimal.Decimal
	Active        bool
}

// MarketMap is keyed by symbol.
type MarketMap map[string]Market

type Order struct {
	OrderID          string
	ClientOrderID    string
	Symbol           string
	Side             tradeportapi.OrderSide
	Type             tradeportapi.OrderType
	Price            decimal.Decimal
	Quantity         decimal.Decimal
	ExecutedQuantity decimal.Decimal
	Status           tradeportapi.OrderStatus
	CreatedAt        time.Time
}

type SubmitOrder struct {
	Symbol   string
	Side     tradeportapi.OrderSide
	Type     tradeportapi.OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal

	// ClientOrderID is generated when empty so that callers can re-submit
	// idempotently after an ambiguous failure.
	ClientOrderID string

	TimeInForce tradeportapi.TimeInForce
}
