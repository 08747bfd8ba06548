package tradeportapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

type TradeService struct {
	client *RestClient
}

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

type TimeInForce string

const (
	GTC TimeInForce = "gtc"
	IOC TimeInForce = "ioc"
	FOK TimeInForce = "fok"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusRejected        OrderStatus = "rejected"
)

type Order struct {
	OrderID          string          `json:"orderId"`
	ClientOrderID    string          `json:"clientOrderId"`
	Symbol           string          `json:"symbol"`
	Side             OrderSide       `json:"side"`
	Type             OrderType       `json:"type"`
	Price            decimal.Decimal `json:"price"`
	Quantity         decimal.Decimal `json:"quantity"`
	ExecutedQuantity decimal.Decimal `json:"executedQuantity"`
	Status           OrderStatus     `json:"status"`

	// CreatedAt is the order creation time in unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

type PlaceOrderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     OrderSide       `json:"side"`
	Type     OrderType       `json:"type"`
	Price    decimal.Decimal `json:"price,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`

	// ClientOrderID makes placement idempotent on the server side: replaying
	// the same id never creates a second order. Retrying placement is still
	// the caller's decision, never this client's.
	ClientOrderID string `json:"clientOrderId,omitempty"`

	TimeInForce TimeInForce `json:"timeInForce,omitempty"`
}

// validate fails fast on malformed input before any network round trip.
func (r *PlaceOrderRequest) validate() error {
	fields := map[string]string{}

	if r.Symbol == "" {
		fields["symbol"] = "required"
	}
	if r.Side != SideBuy && r.Side != SideSell {
		fields["side"] = "must be buy or sell"
	}
	if r.Type != OrderTypeLimit && r.Type != OrderTypeMarket {
		fields["type"] = "must be limit or market"
	}
	if !r.Quantity.IsPositive() {
		fields["quantity"] = "must be positive"
	}
	if r.Type == OrderTypeLimit && !r.Price.IsPositive() {
		fields["price"] = "must be positive for limit orders"
	}

	if len(fields) > 0 {
		return &apierrors.ValidationError{Message: "invalid order", FieldErrors: fields}
	}
	return nil
}

func (s *TradeService) PlaceOrder(ctx context.Context, order *PlaceOrderRequest) (*Order, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}

	resp, err := s.client.Request(ctx, http.MethodPost, "/api/v1/orders", nil, order)
	if err != nil {
		return nil, err
	}

	var placed Order
	if err := decodeResponse(resp, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

func (s *TradeService) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, &apierrors.ValidationError{Message: "order id is required"}
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/api/v1/orders/"+orderID, nil, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decodeResponse(resp, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *TradeService) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, &apierrors.ValidationError{Message: "order id is required"}
	}

	resp, err := s.client.Request(ctx, http.MethodDelete, "/api/v1/orders/"+orderID, nil, nil)
	if err != nil {
		return nil, err
	}

	var canceled Order
	if err := decodeResponse(resp, &canceled); err != nil {
		return nil, err
	}
	return &canceled, nil
}

func (s *TradeService) ListOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	var params url.Values
	if symbol != "" {
		params = url.Values{}
		params.Add("symbol", symbol)
	}

	resp, err := s.client.Request(ctx, http.MethodGet, "/api/v1/orders", params, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := decodeResponse(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
