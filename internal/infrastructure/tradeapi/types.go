package tradeapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type priceResp struct {
	Price *decimal.Decimal `json:"price"`
}

type accountResp struct {
	CashBalance *decimal.Decimal `json:"cash_balance"`
	BtcBalance  *decimal.Decimal `json:"btc_balance"`
}

type orderResp struct {
	ID        wireID           `json:"id"`
	Type      string           `json:"type"`
	Price     *decimal.Decimal `json:"price"`
	Amount    *decimal.Decimal `json:"amount"`
	CreatedAt *wireTime        `json:"created_at"`
	ClosedAt  *wireTime        `json:"closed_at"`
	Status    string           `json:"status"`
}

type tradeReq struct {
	Type   string      `json:"type"`
	Amount json.Number `json:"amount"`
}

type tradeResp struct {
	OrderID   *wireID          `json:"order_id"`
	Price     *decimal.Decimal `json:"price"`
	Timestamp *wireTime        `json:"timestamp"`
	Account   *accountResp     `json:"account"`
}

type closeReq struct {
	OrderID int64 `json:"order_id"`
}

type closeResp struct {
	OrderID    *wireID          `json:"order_id"`
	Status     string           `json:"status"`
	Timestamp  *wireTime        `json:"timestamp"`
	ClosePrice *decimal.Decimal `json:"close_price"`
	Account    *accountResp     `json:"account"`
}

// wireID accepts both 5 and "5".
type wireID int64

func (id *wireID) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "order id %s", string(b))
	}
	*id = wireID(n)
	return nil
}

// naive ISO-8601 layouts the service emits without a zone; read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// wireTime accepts RFC3339 and zone-less ISO-8601 timestamps.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "timestamp")
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = wireTime(ts)
		return nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*t = wireTime(ts)
			return nil
		}
	}
	return errors.Errorf("unrecognized timestamp %q", s)
}

func (t *wireTime) Time() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.Time(*t)
}
