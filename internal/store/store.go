// Package store holds the application state and is the single entry point for
// changing it. Every change is written back to its slot immediately.
package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/service"
	"github.com/google/uuid"
)

// State is the full set of records and settings.
type State struct {
	Settings     model.Settings     `json:"settings"`
	Transactions []model.Transaction `json:"transactions"`
	Debts        []model.Debt        `json:"debts"`
	TaxPayments  []model.TaxPayment  `json:"taxPayments"`
	FixedCosts   []model.FixedCost   `json:"fixedCosts"`
}

// Result reports the effect of a dispatched command.
type Result struct {
	// Warning is set when the change applied in memory but could not be saved.
	Warning error
	// ID of the created, updated or deleted record.
	ID string
	// Count of records added by a batch import.
	Count   int
	Changed bool
}

// Options configure a Store.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
	Engine engine.Config
}

// Store owns the State. It is safe for concurrent use.
type Store struct {
	kv      service.KV
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	cached  *engine.Dashboard
	engine  engine.Config
	state   State
	version uint64
	cacheAt uint64
	mu      sync.Mutex
}

// Open loads every slot from kv, seeding the ones that were never written.
func Open(ctx context.Context, kv service.KV, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Engine.AnnualGoal.IsZero() && opts.Engine.Milestones == nil && opts.Engine.Buckets == nil {
		opts.Engine = engine.DefaultConfig()
	}

	s := &Store{
		kv:     kv,
		logger: opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
		engine: opts.Engine,
	}
	s.load(ctx)

	return s
}

// Dispatch applies cmd. Validation failures and unconfirmed deletes return an
// error and leave the state untouched. An unmatched id is a no-op. Save
// failures are logged and reported in Result.Warning.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := cmd.apply(&s.state, env{now: s.now(), newID: s.newID})
	if err != nil {
		s.logger.Debug("Command rejected", "command", commandName(cmd), "error", err)
		return Result{}, err
	}

	result := Result{ID: out.id, Count: out.count, Changed: out.changed}
	if !out.changed {
		return result, nil
	}

	s.version++
	if err := s.persist(ctx, out.slot); err != nil {
		s.logger.Warn("Change kept in memory but not saved", "slot", out.slot, "error", err)
		result.Warning = err
	}

	return result, nil
}

// Dashboard returns the derived view of the current state, recomputing only
// after a change.
func (s *Store) Dashboard() engine.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || s.cacheAt != s.version {
		d := engine.Build(s.engine, engine.Records{
			Settings:     s.state.Settings,
			Transactions: s.state.Transactions,
			Debts:        s.state.Debts,
			TaxPayments:  s.state.TaxPayments,
			FixedCosts:   s.state.FixedCosts,
		})
		s.cached = &d
		s.cacheAt = s.version
	}

	return *s.cached
}

// Snapshot returns a copy of the state that callers may keep.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Settings:     s.state.Settings,
		Transactions: slices.Clone(s.state.Transactions),
		Debts:        slices.Clone(s.state.Debts),
		TaxPayments:  slices.Clone(s.state.TaxPayments),
		FixedCosts:   slices.Clone(s.state.FixedCosts),
	}
}

// Settings returns the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// Transaction looks up a transaction by id.
func (s *Store) Transaction(id string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Transactions, id, transactionID)
}

// Debt looks up a debt by id.
func (s *Store) Debt(id string) (model.Debt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Debts, id, debtID)
}

// TaxPayment looks up a tax payment by id.
func (s *Store) TaxPayment(id string) (model.TaxPayment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.TaxPayments, id, taxPaymentID)
}

// FixedCost looks up a fixed cost by id.
func (s *Store) FixedCost(id string) (model.FixedCost, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.FixedCosts, id, fixedCostID)
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case CreateTransaction, UpdateTransaction, DeleteTransaction, ImportTransactions:
		return "transaction"
	case CreateDebt, UpdateDebt, DeleteDebt:
		return "debt"
	case CreateTaxPayment, UpdateTaxPayment, DeleteTaxPayment:
		return "tax_payment"
	case CreateFixedCost, UpdateFixedCost, DeleteFixedCost:
		return "fixed_cost"
	default:
		return "settings"
	}
}
