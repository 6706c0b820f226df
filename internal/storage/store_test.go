package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"monetto/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "monetto.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendTransactionHeadOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := core.Transaction{ID: 1, Name: "rent", Category: "Home", Amount: 700}
	second := core.Transaction{ID: 2, Name: "salary", Category: "Finance", Amount: 2000, IsIncome: true}

	if _, err := s.AppendTransaction(ctx, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	updated, err := s.AppendTransaction(ctx, second)
	if err != nil {
		t.Fatalf("append second: %v", err)
	}

	if len(updated) != 2 || updated[0].ID != 2 || updated[1].ID != 1 {
		t.Errorf("returned list order = %+v, want newest first", updated)
	}

	stored, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("read transactions: %v", err)
	}
	if len(stored) != 2 || stored[0].ID != 2 {
		t.Errorf("stored list order = %+v, want newest first", stored)
	}
}

func TestTransactionByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := core.Transaction{ID: 42, Name: "coffee", Category: "Food", Amount: 3}
	if _, err := s.AppendTransaction(ctx, want); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.TransactionByID(ctx, 42)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != want {
		t.Errorf("TransactionByID = %+v, want %+v", got, want)
	}

	if _, err := s.TransactionByID(ctx, 99); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("lookup of unknown id = %v, want ErrTransactionNotFound", err)
	}
}

func TestUpsertLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertLimit(ctx, core.CategoryLimit{Category: "Food", LimitAmount: 100, Period: core.Month}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := s.UpsertLimit(ctx, core.CategoryLimit{Category: "Transport", LimitAmount: 50, Period: core.Week}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	updated, err := s.UpsertLimit(ctx, core.CategoryLimit{Category: "Food", LimitAmount: 80, Period: core.Week})
	if err != nil {
		t.Fatalf("replacing upsert: %v", err)
	}

	if len(updated) != 2 {
		t.Fatalf("limit count = %d, want 2: %+v", len(updated), updated)
	}
	if updated[0].Category != "Food" || updated[0].LimitAmount != 80 || updated[0].Period != core.Week {
		t.Errorf("head limit = %+v, want replaced Food limit", updated[0])
	}

	foodCount := 0
	for _, l := range updated {
		if l.Category == "Food" {
			foodCount++
		}
	}
	if foodCount != 1 {
		t.Errorf("limits for Food = %d, want exactly 1", foodCount)
	}
}

func TestUpsertLimitIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	limit := core.CategoryLimit{Category: "Food", LimitAmount: 100, Period: core.Month}
	if _, err := s.UpsertLimit(ctx, limit); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	updated, err := s.UpsertLimit(ctx, limit)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(updated) != 1 || updated[0] != limit {
		t.Errorf("limits after identical upserts = %+v, want exactly one entry", updated)
	}
}

func TestReplaceGoal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal := core.Goal{ID: 7, Name: "laptop", TargetAmount: 1000, Deadline: 1000, PeriodUnit: core.Month}
	other := core.Goal{ID: 8, Name: "bike", TargetAmount: 300, Deadline: 1000, PeriodUnit: core.Week}

	if _, err := s.AppendGoal(ctx, goal); err != nil {
		t.Fatalf("append goal: %v", err)
	}
	if _, err := s.AppendGoal(ctx, other); err != nil {
		t.Fatalf("append other: %v", err)
	}

	goal.SavedAmount = 250
	updated, err := s.ReplaceGoal(ctx, goal)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	if len(updated) != 2 {
		t.Fatalf("goal count = %d, want 2", len(updated))
	}
	// Replacement happens in place; head insertion put 'other' first.
	if updated[0].ID != 8 || updated[1].SavedAmount != 250 {
		t.Errorf("goals after replace = %+v", updated)
	}
}

func TestReplaceGoalFallbackAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stray := core.Goal{ID: 99, Name: "stray", TargetAmount: 10, Deadline: 1000, PeriodUnit: core.Day}
	updated, err := s.ReplaceGoal(ctx, stray)
	if err != nil {
		t.Fatalf("replace on empty store: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != 99 {
		t.Errorf("goals = %+v, want the stray goal appended", updated)
	}
}

func TestBalanceAccumulator(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if cents, err := s.BalanceCents(ctx); err != nil || cents != 0 {
		t.Fatalf("fresh balance = (%d, %v), want (0, nil)", cents, err)
	}

	if _, err := s.AddToBalance(ctx, 10000); err != nil {
		t.Fatalf("credit: %v", err)
	}
	got, err := s.AddToBalance(ctx, -2500)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got != 7500 {
		t.Errorf("balance = %d, want 7500", got)
	}
}

func TestCurrencyCodeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	code, err := s.CurrencyCode(ctx)
	if err != nil || code != "" {
		t.Fatalf("fresh currency = (%q, %v), want empty", code, err)
	}

	if err := s.SetCurrencyCode(ctx, "RUB"); err != nil {
		t.Fatalf("set currency: %v", err)
	}
	code, err = s.CurrencyCode(ctx)
	if err != nil {
		t.Fatalf("read currency: %v", err)
	}
	if code != "RUB" {
		t.Errorf("currency = %q, want RUB", code)
	}
}

func TestCorruptedCollectionReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)`, keyTransactions, `{"not": "a list"`)
	if err != nil {
		t.Fatalf("plant corrupted value: %v", err)
	}

	got, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("read after corruption: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("transactions = %+v, want empty", got)
	}

	// A write on top of the corrupted value starts from an empty list.
	updated, err := s.AppendTransaction(ctx, core.Transaction{ID: 1, Name: "fresh", Category: "Food", Amount: 1})
	if err != nil {
		t.Fatalf("append after corruption: %v", err)
	}
	if len(updated) != 1 {
		t.Errorf("list after recovery append = %+v, want single entry", updated)
	}
}
