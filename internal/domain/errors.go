package domain

import "errors"

var (
	ErrNonPositivePrice    = errors.New("price must be positive")
	ErrInvalidAmount       = errors.New("trade amount must be positive")
	ErrInvalidSide         = errors.New("unknown order side")
	ErrPositionNotOpen     = errors.New("position is not open")
	ErrNegativeBalance     = errors.New("negative balance reported by service")
	ErrOrdersAlreadyLoaded = errors.New("orders already loaded for this session")
	ErrSessionClosed       = errors.New("session closed")
)
