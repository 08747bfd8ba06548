package tradeportapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type AccountService struct {
	client *RestClient
}

type Account struct {
	AccountID    string          `json:"accountId"`
	MakerFeeRate decimal.Decimal `json:"makerFeeRate"`
	TakerFeeRate decimal.Decimal `json:"takerFeeRate"`
	CanTrade     bool            `json:"canTrade"`
	CanWithdraw  bool            `json:"canWithdraw"`
}

type Balance struct {
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
}

func (s *AccountService) GetAccount(ctx context.Context) (*Account, error) {
	resp, err := s.client.Request(ctx, http.MethodGet, "/api/v1/account", nil, nil)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decodeResponse(resp, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) GetBalances(ctx context.Context) ([]Balance, error) {
	resp, err := s.client.Request(ctx, http.MethodGet, "/api/v1/balances", nil, nil)
	if err != nil {
		return nil, err
	}

	var balances []Balance
	if err := decodeResponse(resp, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}
