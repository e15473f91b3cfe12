package dashboard

import (
	"github.com/rs/zerolog/log"

	"tradedash/internal/application/port"
)

type logReporter struct{}

// NewLogReporter reports swallowed failures through the global zerolog logger.
func NewLogReporter() port.Reporter { return logReporter{} }

func (logReporter) Report(component string, err error) {
	log.Warn().Err(err).Str("component", component).Msg("update skipped")
}

// ReporterFunc adapts a function to port.Reporter.
type ReporterFunc func(component string, err error)

func (f ReporterFunc) Report(component string, err error) { f(component, err) }

const (
	componentPoller  = "price_poller"
	componentAccount = "account_sync"
	componentOrders  = "order_fetcher"
	componentIssuer  = "trade_issuer"
	componentJournal = "journal"
)
