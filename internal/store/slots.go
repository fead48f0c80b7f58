package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/service"
)

// Slot keys. Each record list and each setting persists independently.
const (
	KeyTransactions   = "hana_txs"
	KeyDebts          = "hana_debts"
	KeyTaxPayments    = "hana_tax_paid"
	KeyFixedCosts     = "hana_fixed_costs"
	KeyProLabore      = "hana_prolabore"
	KeyAllocationRate = "hana_allocation_rate"
	KeyTaxRate        = "hana_tax_rate"
	KeyAuth           = "hana_auth"
)

// loadSlot decodes key into dst. Missing slots keep the seed already in dst;
// unreadable or undecodable slots are logged and also keep the seed.
func loadSlot[T any](ctx context.Context, kv service.KV, logger *slog.Logger, key string, dst *T, seed T) {
	*dst = seed

	raw, ok, err := kv.Load(ctx, key)
	if err != nil {
		logger.Warn("Failed to load slot, using defaults", "slot", key, "error", err)
		return
	}
	if !ok {
		return
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logger.Warn("Corrupt slot, using defaults", "slot", key, "error", err)
		return
	}
	*dst = decoded
}

func (s *Store) load(ctx context.Context) {
	keys, err := s.kv.Keys(ctx)
	switch {
	case err != nil:
		s.logger.Warn("Failed to list saved slots", "error", err)
	case len(keys) == 0:
		s.logger.Info("No saved data, starting from the sample ledger")
	default:
		s.logger.Debug("Loading saved slots", "slots", keys)
	}

	loadSlot(ctx, s.kv, s.logger, KeyTransactions, &s.state.Transactions, model.SeedTransactions())
	loadSlot(ctx, s.kv, s.logger, KeyDebts, &s.state.Debts, model.SeedDebts())
	loadSlot(ctx, s.kv, s.logger, KeyTaxPayments, &s.state.TaxPayments, []model.TaxPayment{})
	loadSlot(ctx, s.kv, s.logger, KeyFixedCosts, &s.state.FixedCosts, []model.FixedCost{})
	loadSlot(ctx, s.kv, s.logger, KeyProLabore, &s.state.Settings.ProLabore, model.DefaultProLabore)
	loadSlot(ctx, s.kv, s.logger, KeyAllocationRate, &s.state.Settings.AllocationRate, model.DefaultAllocationRate)
	loadSlot(ctx, s.kv, s.logger, KeyTaxRate, &s.state.Settings.TaxRate, model.DefaultTaxRate)

	// A literal null decodes to a nil slice; treat it as empty.
	if s.state.Transactions == nil {
		s.state.Transactions = []model.Transaction{}
	}
	if s.state.Debts == nil {
		s.state.Debts = []model.Debt{}
	}
	if s.state.TaxPayments == nil {
		s.state.TaxPayments = []model.TaxPayment{}
	}
	if s.state.FixedCosts == nil {
		s.state.FixedCosts = []model.FixedCost{}
	}
}

func (s *Store) slotValue(key string) (any, error) {
	switch key {
	case KeyTransactions:
		return s.state.Transactions, nil
	case KeyDebts:
		return s.state.Debts, nil
	case KeyTaxPayments:
		return s.state.TaxPayments, nil
	case KeyFixedCosts:
		return s.state.FixedCosts, nil
	case KeyProLabore:
		return s.state.Settings.ProLabore, nil
	case KeyAllocationRate:
		return s.state.Settings.AllocationRate, nil
	case KeyTaxRate:
		return s.state.Settings.TaxRate, nil
	default:
		return nil, fmt.Errorf("unknown slot %q", key)
	}
}

// persist writes one slot. The in-memory state stays authoritative on failure.
func (s *Store) persist(ctx context.Context, key string) error {
	value, err := s.slotValue(key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}

	if err := s.kv.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}
