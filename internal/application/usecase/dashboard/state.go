package dashboard

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

// State is the single owned view model. Every setter is atomic for its field group;
// producers are otherwise uncoordinated and the last writer wins.
type State struct {
	mu sync.Mutex

	closed bool

	price decimal.Decimal
	dir   domain.Direction
	seq   uint64 // bumped on every applied price

	account model.Account
	open    []model.Position     // newest first
	history []model.HistoryEntry // newest first

	listeners []func()
}

func NewState() *State {
	return &State{}
}

// OnChange registers fn to run after every applied update. fn runs outside the lock.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *State) notify() {
	s.mu.Lock()
	ls := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range ls {
		fn()
	}
}

// Close tears the state down. Later writes are dropped.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

func (s *State) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SetPrice stores a new quote and its direction relative to the previous one.
// The returned sequence identifies this update for ResetDirection.
func (s *State) SetPrice(p decimal.Decimal) (domain.Direction, uint64, bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.DirectionNeutral, 0, false
	}
	dir := domain.DirectionOf(s.price, p)
	s.price = p
	s.dir = dir
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify()
	return dir, seq, true
}

// ResetDirection neutralizes the pulse set by update seq, unless a newer quote has
// arrived since.
func (s *State) ResetDirection(seq uint64) bool {
	s.mu.Lock()
	if s.closed || s.seq != seq || s.dir == domain.DirectionNeutral {
		s.mu.Unlock()
		return false
	}
	s.dir = domain.DirectionNeutral
	s.mu.Unlock()

	s.notify()
	return true
}

// SetAccount overwrites the account wholesale.
func (s *State) SetAccount(a model.Account) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.account = a
	s.mu.Unlock()

	s.notify()
	return true
}

// ReplaceOrders installs the fetched open/history partition. Positions applied locally
// by confirmed commands and missing from the fetched data stay in front.
func (s *State) ReplaceOrders(open []model.Position, history []model.HistoryEntry) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}

	seen := make(map[int64]struct{}, len(open)+len(history))
	hist := make([]model.HistoryEntry, 0, len(history)+len(s.history))
	for _, h := range s.history {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		hist = append(hist, h)
	}
	fetchedHist := make([]model.HistoryEntry, 0, len(history))
	for _, h := range history {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		fetchedHist = append(fetchedHist, h)
	}
	hist = append(hist, fetchedHist...)

	fetchedOpen := make(map[int64]struct{}, len(open))
	for _, p := range open {
		fetchedOpen[p.ID] = struct{}{}
	}
	pos := make([]model.Position, 0, len(open)+len(s.open))
	for _, p := range s.open {
		if _, ok := fetchedOpen[p.ID]; ok {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		pos = append(pos, p)
	}
	for _, p := range open {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		pos = append(pos, p)
	}

	s.open = pos
	s.history = hist
	s.mu.Unlock()

	s.notify()
	return true
}

// PrependOpen adds a confirmed position in front. Ids already known are ignored.
func (s *State) PrependOpen(p model.Position) bool {
	s.mu.Lock()
	if s.closed || s.indexOpen(p.ID) >= 0 || s.indexHistory(p.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.open = append([]model.Position{p}, s.open...)
	s.mu.Unlock()

	s.notify()
	return true
}

// CloseResult describes what MoveToHistory did.
type CloseResult struct {
	Entry    model.HistoryEntry
	WasOpen  bool // id was found in the open set and removed
	Appended bool // entry was prepended to history
}

// MoveToHistory removes the position from the open set and prepends its history entry.
// The stored copy of the position is used when present, p otherwise. An id already in
// history is never appended twice.
func (s *State) MoveToHistory(p model.Position, closedAt time.Time, closePrice *decimal.Decimal) (CloseResult, bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return CloseResult{}, false
	}

	var res CloseResult
	if i := s.indexOpen(p.ID); i >= 0 {
		p = s.open[i]
		s.open = append(s.open[:i:i], s.open[i+1:]...)
		res.WasOpen = true
	}
	res.Entry = model.NewHistoryEntry(p, closedAt, closePrice)
	if s.indexHistory(p.ID) < 0 {
		s.history = append([]model.HistoryEntry{res.Entry}, s.history...)
		res.Appended = true
	}
	s.mu.Unlock()

	s.notify()
	return res, true
}

// Snapshot returns a copy safe to hand to presentation.
func (s *State) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.Snapshot{
		Price:     s.price,
		Direction: s.dir,
		Account:   s.account,
		Open:      append([]model.Position{}, s.open...),
		History:   append([]model.HistoryEntry{}, s.history...),
	}
}

// OpenPosition looks up an open position by id.
func (s *State) OpenPosition(id int64) (model.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOpen(id); i >= 0 {
		return s.open[i], true
	}
	return model.Position{}, false
}

func (s *State) indexOpen(id int64) int {
	for i, p := range s.open {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) indexHistory(id int64) int {
	for i, h := range s.history {
		if h.ID == id {
			return i
		}
	}
	return -1
}
