package dashboard

import (
	"fmt"
	"strings"

	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

type Formatter struct {
	Base  string // e.g. BTC
	Quote string // e.g. USDT
}

func NewFormatter(base, quote string) *Formatter {
	return &Formatter{Base: base, Quote: quote}
}

type RenderMode int

const (
	RenderLive RenderMode = iota
	RenderSnapshot
)

func (f *Formatter) Render(snap model.Snapshot, mode RenderMode) string {
	var sb strings.Builder
	if mode == RenderLive {
		sb.WriteString("\r")
	}

	sb.WriteString(colorize("[TRADEDASH] ", ansiDim))

	px := "--"
	if snap.Price.IsPositive() {
		px = snap.Price.StringFixed(domain.PricePlaces)
	}
	pxCol := ansiYellow
	switch snap.Direction {
	case domain.DirectionUp:
		pxCol = ansiGreen
	case domain.DirectionDown:
		pxCol = ansiRed
	}
	sb.WriteString(f.Base)
	sb.WriteString(" ")
	sb.WriteString(colorize(px, pxCol))

	sb.WriteString(colorize("  ||  ", ansiDim))
	sb.WriteString(fmt.Sprintf("%s:%s %s:%s",
		f.Quote, snap.Account.Cash.StringFixed(domain.CashPlaces),
		f.Base, snap.Account.Asset.StringFixed(domain.AssetPlaces)))
	if snap.Price.IsPositive() {
		sb.WriteString(colorize(fmt.Sprintf(" ≈%s", snap.AssetValue().StringFixed(domain.CashPlaces)), ansiDim))
	}

	sb.WriteString(colorize("  ||  ", ansiDim))
	sb.WriteString(fmt.Sprintf("open=%d closed=%d", len(snap.Open), len(snap.History)))

	if mode == RenderSnapshot {
		for _, p := range snap.Open {
			sb.WriteString("\n  ")
			sb.WriteString(f.position(p))
		}
	}

	if mode == RenderLive {
		sb.WriteString(ansiClearEOL)
	}
	return sb.String()
}

func (f *Formatter) position(p model.Position) string {
	col := ansiGreen
	if p.Side == model.SideSell {
		col = ansiRed
	}
	return fmt.Sprintf("#%d %s %s @ %s = %s %s",
		p.ID,
		colorize(strings.ToUpper(string(p.Side)), col),
		p.Amount.String(),
		p.Price.StringFixed(domain.PricePlaces),
		p.Notional().StringFixed(domain.CashPlaces),
		f.Quote)
}
