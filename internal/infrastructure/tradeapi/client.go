package tradeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

var (
	// ErrTransport covers network failures and timeouts.
	ErrTransport = errors.New("trading service unreachable")
	// ErrHTTPStatus is any non-2xx reply. The body is not inspected.
	ErrHTTPStatus = errors.New("trading service non-2xx")
	// ErrMalformed is a 2xx reply whose body cannot be used.
	ErrMalformed = errors.New("trading service malformed response")
)

// Client talks JSON over HTTP to the remote trading service.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// 不做自动重试：价格轮询的下一个 tick 就是唯一的重试机制
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	r := c.client.R().SetContext(ctx)
	if body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(body)
	}

	resp, err := r.Execute(method, path)
	if err != nil {
		return errors.Wrapf(ErrTransport, "%s %s: %v", method, path, err)
	}
	if !resp.IsSuccess() {
		return errors.Wrapf(ErrHTTPStatus, "%s %s: http %d", method, path, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(ErrMalformed, "%s %s: %v", method, path, err)
	}
	return nil
}

func (c *Client) Price(ctx context.Context) (decimal.Decimal, error) {
	var resp priceResp
	if err := c.do(ctx, http.MethodGet, "/price", nil, &resp); err != nil {
		return decimal.Zero, err
	}
	if resp.Price == nil {
		return decimal.Zero, errors.Wrap(ErrMalformed, "price missing")
	}
	return *resp.Price, nil
}

func (c *Client) Account(ctx context.Context) (model.Account, error) {
	var resp accountResp
	if err := c.do(ctx, http.MethodGet, "/account", nil, &resp); err != nil {
		return model.Account{}, err
	}
	return resp.toModel()
}

func (c *Client) Orders(ctx context.Context) ([]port.Order, error) {
	var resp []orderResp
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]port.Order, 0, len(resp))
	for _, o := range resp {
		side, err := model.ParseSide(o.Type)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "order %d: %v", o.ID, err)
		}
		if o.Price == nil || o.Amount == nil {
			return nil, errors.Wrapf(ErrMalformed, "order %d: price or amount missing", o.ID)
		}
		out = append(out, port.Order{
			ID:        int64(o.ID),
			Side:      side,
			Price:     *o.Price,
			Amount:    *o.Amount,
			CreatedAt: o.CreatedAt.Time(),
			ClosedAt:  o.ClosedAt.Time(),
			Status:    model.Status(strings.ToLower(strings.TrimSpace(o.Status))),
		})
	}
	return out, nil
}

func (c *Client) Trade(ctx context.Context, side model.Side, amount decimal.Decimal) (*port.TradeResult, error) {
	req := tradeReq{Type: string(side), Amount: json.Number(amount.String())}

	var resp tradeResp
	if err := c.do(ctx, http.MethodPost, "/trade", req, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID == nil || resp.Price == nil || resp.Timestamp == nil || resp.Account == nil {
		return nil, errors.Wrap(ErrMalformed, "trade: order_id, price, timestamp and account are required")
	}
	acc, err := resp.Account.toModel()
	if err != nil {
		return nil, err
	}
	return &port.TradeResult{
		OrderID:   int64(*resp.OrderID),
		Price:     *resp.Price,
		Timestamp: resp.Timestamp.Time(),
		Account:   acc,
	}, nil
}

func (c *Client) Close(ctx context.Context, orderID int64) (*port.CloseResult, error) {
	var resp closeResp
	if err := c.do(ctx, http.MethodPost, "/close", closeReq{OrderID: orderID}, &resp); err != nil {
		return nil, err
	}
	if resp.Timestamp == nil || resp.Account == nil {
		return nil, errors.Wrap(ErrMalformed, "close: timestamp and account are required")
	}
	acc, err := resp.Account.toModel()
	if err != nil {
		return nil, err
	}
	return &port.CloseResult{
		OrderID:    orderID,
		Timestamp:  resp.Timestamp.Time(),
		ClosePrice: resp.ClosePrice,
		Account:    acc,
	}, nil
}

func (a accountResp) toModel() (model.Account, error) {
	if a.CashBalance == nil || a.BtcBalance == nil {
		return model.Account{}, errors.Wrap(ErrMalformed, "account: cash_balance and btc_balance are required")
	}
	return model.NewAccount(*a.CashBalance, *a.BtcBalance), nil
}

var _ port.TradingAPI = (*Client)(nil)
