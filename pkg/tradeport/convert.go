package tradeport

import (
	"time"

	"github.com/tradeport/tradeport-go/pkg/tradeportapi"
)

func toGlobalBalances(balances []tradeportapi.Balance) BalanceMap {
	m := BalanceMap{}
	for _, b := range balances {
		m[b.Currency] = Balance{
			Currency:  b.Currency,
			Available: b.Available,
			Locked:    b.Locked,
		}
	}
	return m
}

func toGlobalTicker(t *tradeportapi.Ticker) *Ticker {
	return &Ticker{
		Symbol: t.Symbol,
		Last:   t.Last,
		Bid:    t.Bid,
		Ask:    t.Ask,
		High:   t.High,
		Low:    t.Low,
		Volume: t.Volume,
		Time:   time.UnixMilli(t.Time),
	}
}

func toGlobalMarket(m tradeportapi.Market) Market {
	return Market{
		Symbol:        m.Symbol,
		BaseCurrency:  m.BaseCurrency,
		QuoteCurrency: m.QuoteCurrency,
		MinQuantity:   m.MinQuantity,
		TickSize:      m.TickSize,
		StepSize:      m.StepSize,
		Active:        m.Active,
	}
}

func toGlobalOrder(o *tradeportapi.Order) *Order {
	return &Order{
		OrderID:          o.OrderID,
		ClientOrderID:    o.ClientOrderID,
		Symbol:           o.Symbol,
		Side:             o.Side,
		Type:             o.Type,
		Price:            o.Price,
		Quantity:         o.Quantity,
		ExecutedQuantity: o.ExecutedQuantity,
		Status:           o.Status,
		CreatedAt:        time.UnixMilli(o.CreatedAt),
	}
}
