// Package checkout holds the cart of the scanning screen: the ledger of lines,
// the scan signature tracker and the totals derived from them.
//
// All mutation goes through Reduce, which works on a copy of State and keeps
// the original when a command fails, so a rejected add or a failed scan never
// leaves the cart half-updated. Session wraps a State behind a mutex for
// callers living on several goroutines.
package checkout

import (
	"sync"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/google/uuid"
)

// State is everything the checkout screen owns for one sale.
type State struct {
	ledger        Ledger
	tracker       Tracker
	cashTendered  string
	totalOverride string
	pickQuantity  int
	selected      *model.Product
}

// NewState returns an empty cart with a pick quantity of 1.
func NewState() State {
	return State{ledger: NewLedger(), tracker: NewTracker(), pickQuantity: 1}
}

func (s State) clone() State {
	out := s
	out.ledger = s.ledger.Clone()
	out.tracker = s.tracker.Clone()
	if s.selected != nil {
		p := *s.selected
		out.selected = &p
	}
	return out
}

func (s State) Lines() []model.CartLine { return s.ledger.Lines() }
func (s State) Line(id int) (model.CartLine, bool) { return s.ledger.Line(id) }
func (s State) Empty() bool { return s.ledger.Len() == 0 }
func (s State) CashTendered() string { return s.cashTendered }
func (s State) TotalOverride() string { return s.totalOverride }
func (s State) PickQuantity() int { return s.pickQuantity }
func (s State) ContainsProduct(id string) bool { return s.ledger.ContainsProduct(id) }
func (s State) QuantityOf(id string) int { return s.ledger.QuantityOf(id) }
func (s State) Tracked(sig string) []string { return s.tracker.Tracked(sig) }
func (s State) TrackedCount() int { return s.tracker.Len() }

// Selected returns the product currently picked in the UI, if any.
func (s State) Selected() (model.Product, bool) {
	if s.selected == nil {
		return model.Product{}, false
	}
	return *s.selected, true
}

// SignatureBlocked reports whether a cart payload with sig must be rejected.
func (s State) SignatureBlocked(sig string) bool {
	return s.tracker.Blocked(sig, s.ledger.ContainsProduct)
}

// Totals derives the totals of the current state.
func (s State) Totals() Totals {
	return ComputeTotals(s.ledger.lines, s.totalOverride, s.cashTendered)
}

// Outcome describes what a successful command did.
type Outcome struct {
	// Acknowledged asks the UI for the audio+haptic confirmation.
	Acknowledged bool
	Lines        []model.CartLine
	// Warnings are soft failures inside a partially applied command.
	Warnings []string
	// Released lists signatures that became scannable again.
	Released []string
}

// Command is one transition of State.
type Command interface {
	apply(s *State) (Outcome, error)
}

// Reduce applies cmd to a copy of s. On error the returned State is s itself.
func Reduce(s State, cmd Command) (State, Outcome, error) {
	next := s.clone()
	out, err := cmd.apply(&next)
	if err != nil {
		return s, out, err
	}
	return next, out, nil
}

// Session is the mutex-guarded State of one checkout screen.
type Session struct {
	mu    sync.Mutex
	id    uuid.UUID
	state State
}

func NewSession() *Session {
	return &Session{id: uuid.New(), state: NewState()}
}

func (s *Session) ID() uuid.UUID { return s.id }

// Dispatch reduces cmd into the session state.
func (s *Session) Dispatch(cmd Command) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, out, err := Reduce(s.state, cmd)
	s.state = next
	return out, err
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}
