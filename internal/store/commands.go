package store

import (
	"errors"
	"time"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/money"
)

// ErrConfirmationRequired is returned by deletes that were not confirmed.
var ErrConfirmationRequired = errors.New("delete requires confirmation")

// Command is a single mutation of the record store. Commands are applied by
// Store.Dispatch.
type Command interface {
	apply(st *State, env env) (outcome, error)
}

type env struct {
	now   time.Time
	newID func() string
}

type outcome struct {
	slot    string
	id      string
	count   int
	changed bool
}

// CreateTransaction validates a draft and prepends it.
type CreateTransaction struct {
	Draft model.TransactionDraft
}

// UpdateTransaction replaces the transaction with ID.
type UpdateTransaction struct {
	ID    string
	Draft model.TransactionDraft
}

// DeleteTransaction removes the transaction with ID once Confirmed.
type DeleteTransaction struct {
	ID        string
	Confirmed bool
}

// ImportTransactions prepends a batch of drafts in one write. Invalid drafts
// are skipped and counted in the result.
type ImportTransactions struct {
	Drafts []model.TransactionDraft
}

// CreateDebt validates a draft and prepends it.
type CreateDebt struct {
	Draft model.DebtDraft
}

// UpdateDebt replaces the debt with ID.
type UpdateDebt struct {
	ID    string
	Draft model.DebtDraft
}

// DeleteDebt removes the debt with ID once Confirmed.
type DeleteDebt struct {
	ID        string
	Confirmed bool
}

// CreateTaxPayment validates a draft and prepends it.
type CreateTaxPayment struct {
	Draft model.TaxPaymentDraft
}

// UpdateTaxPayment replaces the tax payment with ID.
type UpdateTaxPayment struct {
	ID    string
	Draft model.TaxPaymentDraft
}

// DeleteTaxPayment removes the tax payment with ID once Confirmed.
type DeleteTaxPayment struct {
	ID        string
	Confirmed bool
}

// CreateFixedCost validates a draft and prepends it.
type CreateFixedCost struct {
	Draft model.FixedCostDraft
}

// UpdateFixedCost replaces the fixed cost with ID.
type UpdateFixedCost struct {
	ID    string
	Draft model.FixedCostDraft
}

// DeleteFixedCost removes the fixed cost with ID once Confirmed.
type DeleteFixedCost struct {
	ID        string
	Confirmed bool
}

// SetProLabore stores the monthly owner draw. Unparseable text becomes 0.
type SetProLabore struct {
	Value string
}

// SetAllocationRate stores the business share of MIXED expenses.
type SetAllocationRate struct {
	Value string
}

// SetTaxRate stores the provision rate.
type SetTaxRate struct {
	Value string
}

func (c CreateTransaction) apply(st *State, e env) (outcome, error) {
	t, err := model.NewTransaction(e.newID(), c.Draft, e.now)
	if err != nil {
		return outcome{}, err
	}
	st.Transactions = prepend(st.Transactions, t)
	return outcome{slot: KeyTransactions, id: t.ID, changed: true}, nil
}

func (c UpdateTransaction) apply(st *State, e env) (outcome, error) {
	t, err := model.NewTransaction(c.ID, c.Draft, e.now)
	if err != nil {
		return outcome{}, err
	}
	changed := replace(st.Transactions, t, transactionID)
	return outcome{slot: KeyTransactions, id: c.ID, changed: changed}, nil
}

func (c DeleteTransaction) apply(st *State, _ env) (outcome, error) {
	if !c.Confirmed {
		return outcome{}, ErrConfirmationRequired
	}
	var changed bool
	st.Transactions, changed = remove(st.Transactions, c.ID, transactionID)
	return outcome{slot: KeyTransactions, id: c.ID, changed: changed}, nil
}

func (c ImportTransactions) apply(st *State, e env) (outcome, error) {
	imported := make([]model.Transaction, 0, len(c.Drafts))
	for _, d := range c.Drafts {
		t, err := model.NewTransaction(e.newID(), d, e.now)
		if err != nil {
			continue
		}
		imported = append(imported, t)
	}
	if len(imported) == 0 {
		return outcome{slot: KeyTransactions}, nil
	}
	st.Transactions = append(imported, st.Transactions...)
	return outcome{slot: KeyTransactions, count: len(imported), changed: true}, nil
}

func (c CreateDebt) apply(st *State, e env) (outcome, error) {
	d, err := model.NewDebt(e.newID(), c.Draft)
	if err != nil {
		return outcome{}, err
	}
	st.Debts = prepend(st.Debts, d)
	return outcome{slot: KeyDebts, id: d.ID, changed: true}, nil
}

func (c UpdateDebt) apply(st *State, _ env) (outcome, error) {
	d, err := model.NewDebt(c.ID, c.Draft)
	if err != nil {
		return outcome{}, err
	}
	changed := replace(st.Debts, d, debtID)
	return outcome{slot: KeyDebts, id: c.ID, changed: changed}, nil
}

func (c DeleteDebt) apply(st *State, _ env) (outcome, error) {
	if !c.Confirmed {
		return outcome{}, ErrConfirmationRequired
	}
	var changed bool
	st.Debts, changed = remove(st.Debts, c.ID, debtID)
	return outcome{slot: KeyDebts, id: c.ID, changed: changed}, nil
}

func (c CreateTaxPayment) apply(st *State, e env) (outcome, error) {
	p, err := model.NewTaxPayment(e.newID(), c.Draft, e.now)
	if err != nil {
		return outcome{}, err
	}
	st.TaxPayments = prepend(st.TaxPayments, p)
	return outcome{slot: KeyTaxPayments, id: p.ID, changed: true}, nil
}

func (c UpdateTaxPayment) apply(st *State, e env) (outcome, error) {
	p, err := model.NewTaxPayment(c.ID, c.Draft, e.now)
	if err != nil {
		return outcome{}, err
	}
	changed := replace(st.TaxPayments, p, taxPaymentID)
	return outcome{slot: KeyTaxPayments, id: c.ID, changed: changed}, nil
}

func (c DeleteTaxPayment) apply(st *State, _ env) (outcome, error) {
	if !c.Confirmed {
		return outcome{}, ErrConfirmationRequired
	}
	var changed bool
	st.TaxPayments, changed = remove(st.TaxPayments, c.ID, taxPaymentID)
	return outcome{slot: KeyTaxPayments, id: c.ID, changed: changed}, nil
}

func (c CreateFixedCost) apply(st *State, e env) (outcome, error) {
	fc, err := model.NewFixedCost(e.newID(), c.Draft)
	if err != nil {
		return outcome{}, err
	}
	st.FixedCosts = prepend(st.FixedCosts, fc)
	return outcome{slot: KeyFixedCosts, id: fc.ID, changed: true}, nil
}

func (c UpdateFixedCost) apply(st *State, _ env) (outcome, error) {
	fc, err := model.NewFixedCost(c.ID, c.Draft)
	if err != nil {
		return outcome{}, err
	}
	changed := replace(st.FixedCosts, fc, fixedCostID)
	return outcome{slot: KeyFixedCosts, id: c.ID, changed: changed}, nil
}

func (c DeleteFixedCost) apply(st *State, _ env) (outcome, error) {
	if !c.Confirmed {
		return outcome{}, ErrConfirmationRequired
	}
	var changed bool
	st.FixedCosts, changed = remove(st.FixedCosts, c.ID, fixedCostID)
	return outcome{slot: KeyFixedCosts, id: c.ID, changed: changed}, nil
}

func (c SetProLabore) apply(st *State, _ env) (outcome, error) {
	st.Settings.ProLabore = money.Normalize(c.Value)
	return outcome{slot: KeyProLabore, changed: true}, nil
}

func (c SetAllocationRate) apply(st *State, _ env) (outcome, error) {
	st.Settings.AllocationRate = money.Normalize(c.Value)
	return outcome{slot: KeyAllocationRate, changed: true}, nil
}

func (c SetTaxRate) apply(st *State, _ env) (outcome, error) {
	st.Settings.TaxRate = money.Normalize(c.Value)
	return outcome{slot: KeyTaxRate, changed: true}, nil
}

func transactionID(t model.Transaction) string { return t.ID }
func debtID(d model.Debt) string               { return d.ID }
func taxPaymentID(p model.TaxPayment) string   { return p.ID }
func fixedCostID(c model.FixedCost) string     { return c.ID }

func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

// replace swaps the element sharing item's id in place.
func replace[T any](list []T, item T, idOf func(T) string) bool {
	id := idOf(item)
	for i := range list {
		if idOf(list[i]) == id {
			list[i] = item
			return true
		}
	}
	return false
}

func remove[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	for i := range list {
		if idOf(list[i]) == id {
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

func find[T any](list []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range list {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
