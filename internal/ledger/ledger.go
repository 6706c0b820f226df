// Package ledger is the single mutation and query surface of the finance
// model. It owns exclusive write access to the store, converts between the
// display currency and the canonical currency at its boundary, maintains the
// running balance accumulator and publishes live collection snapshots to
// subscribers. Presentation code talks only to this package.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"monetto/internal/core"
	"monetto/internal/storage"
)

// EventPublisher emits export events after a transaction is persisted.
// Implemented by the AMQP client; a nil publisher disables exporting.
type EventPublisher interface {
	PublishTransactionExport(ctx context.Context, id int64) error
}

type Ledger struct {
	store  *storage.Store
	events EventPublisher
	now    func() time.Time

	// Write serialization is per collection: transactions and the balance
	// accumulator move together under txMu, goals under goalMu (which
	// additionally takes txMu when an adjustment synthesizes a
	// transaction), limits under limitMu.
	txMu    sync.Mutex
	limitMu sync.Mutex
	goalMu  sync.Mutex

	curMu    sync.Mutex
	currency core.Currency

	idMu   sync.Mutex
	lastID int64

	subs subscriptions
}

// New loads the persisted display currency selection and returns a ready
// ledger. events may be nil.
func New(ctx context.Context, store *storage.Store, events EventPublisher) (*Ledger, error) {
	code, err := store.CurrencyCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currency selection: %w", err)
	}

	l := &Ledger{
		store:    store,
		events:   events,
		now:      time.Now,
		currency: core.CurrencyByCode(code),
	}
	return l, nil
}

// Currency returns the active display currency.
func (l *Ledger) Currency() core.Currency {
	l.curMu.Lock()
	defer l.curMu.Unlock()
	return l.currency
}

// SetDisplayCurrency selects the display currency by code and persists the
// selection. Stored amounts are untouched: only the display multiplier
// changes. Unknown codes resolve to the canonical currency.
func (l *Ledger) SetDisplayCurrency(ctx context.Context, code string) (core.Currency, error) {
	c := core.CurrencyByCode(code)
	if err := l.store.SetCurrencyCode(ctx, c.Code); err != nil {
		return core.Currency{}, fmt.Errorf("persist currency selection: %w", err)
	}

	l.curMu.Lock()
	l.currency = c
	l.curMu.Unlock()

	slog.InfoContext(ctx, "Display currency changed", "code", c.Code, "rate", c.Rate)
	l.subs.publishCurrency(c)
	return c, nil
}

// AddTransaction converts the display-currency amount to canonical units,
// appends the transaction at the head of the history and shifts the balance
// accumulator. Input validation is the caller's job; the facade only
// converts and persists.
func (l *Ledger) AddTransaction(ctx context.Context, name, category string, displayAmount float64, isIncome bool) (core.Transaction, error) {
	amount := l.Currency().ToCanonical(displayAmount)

	l.txMu.Lock()
	defer l.txMu.Unlock()
	return l.appendTransaction(ctx, name, category, amount, isIncome)
}

// appendTransaction persists a canonical-amount transaction and its balance
// effect. Callers hold txMu.
func (l *Ledger) appendTransaction(ctx context.Context, name, category string, amount float64, isIncome bool) (core.Transaction, error) {
	id := l.nextID()
	t := core.Transaction{
		ID:       id,
		Name:     name,
		Category: category,
		Amount:   amount,
		IsIncome: isIncome,
		Date:     id,
	}

	updated, err := l.store.AppendTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	delta := core.Cents(amount)
	if !isIncome {
		delta = -delta
	}
	if _, err := l.store.AddToBalance(ctx, delta); err != nil {
		// The transaction is already persisted; the accumulator is now
		// behind. ReconcileBalance surfaces the drift.
		return t, fmt.Errorf("update balance after transaction %d: %w", t.ID, err)
	}

	l.subs.publishTransactions(updated)
	l.publishExport(ctx, t.ID)
	return t, nil
}

// SetLimit converts the display-currency limit to canonical units and
// upserts it by category. The balance is unaffected.
func (l *Ledger) SetLimit(ctx context.Context, category string, displayLimit float64, period core.Period) (core.CategoryLimit, error) {
	limit := core.CategoryLimit{
		Category:    category,
		LimitAmount: l.Currency().ToCanonical(displayLimit),
		Period:      period,
	}

	l.limitMu.Lock()
	defer l.limitMu.Unlock()

	updated, err := l.store.UpsertLimit(ctx, limit)
	if err != nil {
		return core.CategoryLimit{}, err
	}
	l.subs.publishLimits(updated)
	return limit, nil
}

// AddGoal converts the goal's display-currency target and saved amounts to
// canonical units, assigns a creation-time id and appends it. Creating a
// goal moves no money.
func (l *Ledger) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	c := l.Currency()
	g.TargetAmount = c.ToCanonical(g.TargetAmount)
	g.SavedAmount = c.ToCanonical(g.SavedAmount)

	l.goalMu.Lock()
	defer l.goalMu.Unlock()

	g.ID = l.nextID()
	updated, err := l.store.AppendGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}
	l.subs.publishGoals(updated)
	return g, nil
}

// AdjustGoal moves money between the wallet and a goal. A positive display
// delta deposits into the goal: the saved amount grows, a synthesized
// expense in the savings category is appended and the wallet balance drops.
// A negative delta withdraws and mirrors every effect. The saved amount is
// clamped at zero. Unknown ids return core.ErrGoalNotFound.
func (l *Ledger) AdjustGoal(ctx context.Context, goalID int64, displayDelta float64) (core.Goal, error) {
	delta := l.Currency().ToCanonical(displayDelta)

	l.goalMu.Lock()
	defer l.goalMu.Unlock()

	goals, err := l.store.Goals(ctx)
	if err != nil {
		return core.Goal{}, fmt.Errorf("load goals: %w", err)
	}

	var goal core.Goal
	found := false
	for _, g := range goals {
		if g.ID == goalID {
			goal = g
			found = true
			break
		}
	}
	if !found {
		return core.Goal{}, fmt.Errorf("adjust goal %d: %w", goalID, core.ErrGoalNotFound)
	}

	goal.SavedAmount = math.Max(0, goal.SavedAmount+delta)
	updated, err := l.store.ReplaceGoal(ctx, goal)
	if err != nil {
		return core.Goal{}, err
	}
	l.subs.publishGoals(updated)

	// A deposit is an expense from the wallet's point of view, a
	// withdrawal is income back into it.
	deposit := delta > 0
	name := "Withdrawal from goal: " + goal.Name
	if deposit {
		name = "Deposit to goal: " + goal.Name
	}

	l.txMu.Lock()
	defer l.txMu.Unlock()
	if _, err := l.appendTransaction(ctx, name, core.SavingsCategory, math.Abs(delta), !deposit); err != nil {
		return goal, fmt.Errorf("record goal adjustment: %w", err)
	}

	return goal, nil
}

// Now reads the ledger's clock. Period filtering and views share it so a
// test can freeze time in one place.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Transactions returns the current transaction history, newest first.
func (l *Ledger) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return l.store.Transactions(ctx)
}

// Limits returns the current category limits.
func (l *Ledger) Limits(ctx context.Context) ([]core.CategoryLimit, error) {
	return l.store.Limits(ctx)
}

// Goals returns the current goals.
func (l *Ledger) Goals(ctx context.Context) ([]core.Goal, error) {
	return l.store.Goals(ctx)
}

// BalanceCents returns the balance accumulator in canonical minor units.
func (l *Ledger) BalanceCents(ctx context.Context) (int64, error) {
	return l.store.BalanceCents(ctx)
}

// ReconcileBalance recomputes the balance from the transaction history and
// compares it against the stored accumulator. Drift is logged and returned;
// the accumulator is left untouched.
func (l *Ledger) ReconcileBalance(ctx context.Context) (storedCents, derivedCents int64, err error) {
	storedCents, err = l.store.BalanceCents(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read balance: %w", err)
	}

	transactions, err := l.store.Transactions(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read transactions: %w", err)
	}
	for _, t := range transactions {
		if t.IsIncome {
			derivedCents += core.Cents(t.Amount)
		} else {
			derivedCents -= core.Cents(t.Amount)
		}
	}

	if storedCents != derivedCents {
		slog.WarnContext(ctx, "Balance accumulator drifted from transaction history",
			"stored_cents", storedCents,
			"derived_cents", derivedCents,
			"drift_cents", storedCents-derivedCents)
	}
	return storedCents, derivedCents, nil
}

// nextID hands out strictly increasing epoch-millisecond ids so rapid
// successive writes cannot collide.
func (l *Ledger) nextID() int64 {
	l.idMu.Lock()
	defer l.idMu.Unlock()
	id := core.MillisFromTime(l.now())
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) publishExport(ctx context.Context, id int64) {
	if l.events == nil {
		return
	}
	// Export is best effort: the write already succeeded locally.
	if err := l.events.PublishTransactionExport(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export event", "id", id, "error", err)
	}
}
