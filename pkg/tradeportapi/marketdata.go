package tradeportapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

// MarketDataService serves the public, unsigned endpoints.
type MarketDataService struct {
	client *RestClient
}

type Ticker struct {
	Symbol string          `json:"symbol"`
	Last   decimal.Decimal `json:"last"`
	Bid    decimal.Decimal `json:"bid"`
	Ask    decimal.Decimal `json:"ask"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Volume decimal.Decimal `json:"volume"`

	// Time is the server time of the snapshot in unix milliseconds.
	Time int64 `json:"ts"`
}

type Market struct {
	Symbol        string          `json:"symbol"`
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	MinQuantity   decimal.Decimal `json:"minQuantity"`
	TickSize      decimal.Decimal `json:"tickSize"`
	StepSize      decimal.Decimal `json:"stepSize"`
	Active        bool            `json:"active"`
}

func (s *MarketDataService) GetTicker(ctx context.Context, symbol string) (*Ticker, error) {
	if symbol == "" {
		return nil, &apierrors.ValidationError{Message: "symbol is required"}
	}

	params := url.Values{}
	params.Add("symbol", symbol)

	resp, err := s.client.PublicRequest(ctx, http.MethodGet, "/api/v1/ticker", params)
	if err != nil {
		return nil, err
	}

	var ticker Ticker
	if err := decodeResponse(resp, &ticker); err != nil {
		return nil, err
	}
	return &ticker, nil
}

func (s *MarketDataService) GetMarkets(ctx context.Context) ([]Market, error) {
	resp, err := s.client.PublicRequest(ctx, http.MethodGet, "/api/v1/markets", nil)
	if err != nil {
		return nil, err
	}

	var markets []Market
	if err := decodeResponse(resp, &markets); err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *MarketDataService) GetServerTime(ctx context.Context) (time.Time, error) {
	resp, err := s.client.PublicRequest(ctx, http.MethodGet, "/api/v1/time", nil)
	if err != nil {
		return time.Time{}, err
	}

	var payload struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := decodeResponse(resp, &payload); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(payload.ServerTime), nil
}
