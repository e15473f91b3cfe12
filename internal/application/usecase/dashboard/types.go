package dashboard

import "tradedash/internal/application/port"

type Repository = port.Repository

type TradingAPI = port.TradingAPI
