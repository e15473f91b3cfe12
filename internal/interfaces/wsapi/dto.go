package wsapi

import (
	"time"

	"tradedash/internal/domain/model"
)

// Presentation wants plain numbers; the view model keeps fixed-point values.

type accountDTO struct {
	Cash  float64 `json:"cash"`
	Asset float64 `json:"asset"`
}

type positionDTO struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
}

type snapshotDTO struct {
	Type          string        `json:"type"`
	Price         float64       `json:"price"`
	Direction     string        `json:"direction"`
	Account       accountDTO    `json:"account"`
	AssetValue    float64       `json:"asset_value"`
	OpenPositions []positionDTO `json:"openPositions"`
	History       []positionDTO `json:"history"`
}

type actionMsg struct {
	Action string `json:"action"` // buy | sell | close
	ID     int64  `json:"id,omitempty"`
}

type resultMsg struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func toPosition(p model.Position) positionDTO {
	return positionDTO{
		ID:        p.ID,
		Type:      string(p.Side),
		Price:     p.Price.InexactFloat64(),
		Amount:    p.Amount.InexactFloat64(),
		Value:     p.Notional().InexactFloat64(),
		Timestamp: p.Timestamp,
	}
}

func toSnapshot(s model.Snapshot) snapshotDTO {
	out := snapshotDTO{
		Type:      "snapshot",
		Price:     s.Price.InexactFloat64(),
		Direction: s.Direction.String(),
		Account: accountDTO{
			Cash:  s.Account.Cash.InexactFloat64(),
			Asset: s.Account.Asset.InexactFloat64(),
		},
		AssetValue:    s.AssetValue().InexactFloat64(),
		OpenPositions: make([]positionDTO, 0, len(s.Open)),
		History:       make([]positionDTO, 0, len(s.History)),
	}
	for _, p := range s.Open {
		out.OpenPositions = append(out.OpenPositions, toPosition(p))
	}
	for _, h := range s.History {
		d := toPosition(h.Position)
		d.Status = string(h.Status)
		out.History = append(out.History, d)
	}
	return out
}
