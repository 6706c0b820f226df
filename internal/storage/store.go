// Package storage persists the ledger collections in a SQLite-backed
// key-value preference table. Each collection is one JSON-serialized value;
// every write is an atomic read-modify-write that re-serializes the whole
// collection. A value that fails to deserialize is treated as an empty
// collection and logged, never surfaced.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"monetto/internal/core"

	_ "modernc.org/sqlite"
)

// Preference keys. The layout mirrors the persisted state contract: three
// JSON collections, the balance accumulator in canonical cents and the
// selected display currency code.
const (
	keyTransactions = "transactions_list"
	keyReports      = "reports_list"
	keyGoals        = "goals_list"
	keyBalance      = "main_balance_cents"
	keyCurrency     = "selected_currency"
)

// ErrTransactionNotFound is returned by TransactionByID for unknown ids.
var ErrTransactionNotFound = errors.New("transaction not found")

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations and returns a
// ready store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Transactions returns the stored transaction list, newest first.
func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	raw, err := s.get(ctx, keyTransactions)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Transaction](keyTransactions, raw), nil
}

// TransactionByID looks a single transaction up in the stored list.
func (s *Store) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	list, err := s.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("id %d: %w", id, ErrTransactionNotFound)
}

// AppendTransaction inserts t at the head of the transaction list and
// returns the updated list.
func (s *Store) AppendTransaction(ctx context.Context, t core.Transaction) ([]core.Transaction, error) {
	var updated []core.Transaction
	err := s.update(ctx, keyTransactions, func(raw string) (string, error) {
		list := decodeList[core.Transaction](keyTransactions, raw)
		updated = append([]core.Transaction{t}, list...)
		return encodeList(updated)
	})
	if err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"name", t.Name,
		"category", t.Category,
		"is_income", t.IsIncome)
	return updated, nil
}

// Limits returns the stored category limits.
func (s *Store) Limits(ctx context.Context) ([]core.CategoryLimit, error) {
	raw, err := s.get(ctx, keyReports)
	if err != nil {
		return nil, err
	}
	return decodeList[core.CategoryLimit](keyReports, raw), nil
}

// UpsertLimit removes any existing limit for the same category, inserts the
// new one at the head and returns the updated list.
func (s *Store) UpsertLimit(ctx context.Context, l core.CategoryLimit) ([]core.CategoryLimit, error) {
	var updated []core.CategoryLimit
	err := s.update(ctx, keyReports, func(raw string) (string, error) {
		list := decodeList[core.CategoryLimit](keyReports, raw)
		updated = []core.CategoryLimit{l}
		for _, existing := range list {
			if existing.Category != l.Category {
				updated = append(updated, existing)
			}
		}
		return encodeList(updated)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert limit: %w", err)
	}

	slog.InfoContext(ctx, "Category limit saved",
		"category", l.Category,
		"period", string(l.Period))
	return updated, nil
}

// Goals returns the stored goals.
func (s *Store) Goals(ctx context.Context) ([]core.Goal, error) {
	raw, err := s.get(ctx, keyGoals)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Goal](keyGoals, raw), nil
}

// AppendGoal inserts g at the head of the goal list and returns the updated
// list.
func (s *Store) AppendGoal(ctx context.Context, g core.Goal) ([]core.Goal, error) {
	var updated []core.Goal
	err := s.update(ctx, keyGoals, func(raw string) (string, error) {
		list := decodeList[core.Goal](keyGoals, raw)
		updated = append([]core.Goal{g}, list...)
		return encodeList(updated)
	})
	if err != nil {
		return nil, fmt.Errorf("append goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", g.ID, "name", g.Name)
	return updated, nil
}

// ReplaceGoal swaps the stored goal with the same id for g. A missing id
// appends g instead; callers that care check existence first.
func (s *Store) ReplaceGoal(ctx context.Context, g core.Goal) ([]core.Goal, error) {
	var updated []core.Goal
	err := s.update(ctx, keyGoals, func(raw string) (string, error) {
		list := decodeList[core.Goal](keyGoals, raw)
		replaced := false
		for i := range list {
			if list[i].ID == g.ID {
				list[i] = g
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, g)
		}
		updated = list
		return encodeList(updated)
	})
	if err != nil {
		return nil, fmt.Errorf("replace goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal updated", "id", g.ID, "name", g.Name)
	return updated, nil
}

// BalanceCents returns the running balance accumulator in canonical minor
// units. An unset or unreadable value counts as zero.
func (s *Store) BalanceCents(ctx context.Context) (int64, error) {
	raw, err := s.get(ctx, keyBalance)
	if err != nil {
		return 0, err
	}
	return parseBalance(raw), nil
}

// AddToBalance atomically shifts the balance accumulator by delta cents and
// returns the new value.
func (s *Store) AddToBalance(ctx context.Context, delta int64) (int64, error) {
	var balance int64
	err := s.update(ctx, keyBalance, func(raw string) (string, error) {
		balance = parseBalance(raw) + delta
		return strconv.FormatInt(balance, 10), nil
	})
	if err != nil {
		return 0, fmt.Errorf("add to balance: %w", err)
	}
	return balance, nil
}

// CurrencyCode returns the persisted display currency code, or the empty
// string when none was ever selected.
func (s *Store) CurrencyCode(ctx context.Context) (string, error) {
	return s.get(ctx, keyCurrency)
}

// SetCurrencyCode persists the selected display currency code.
func (s *Store) SetCurrencyCode(ctx context.Context, code string) error {
	err := s.update(ctx, keyCurrency, func(string) (string, error) {
		return code, nil
	})
	if err != nil {
		return fmt.Errorf("set currency code: %w", err)
	}
	return nil
}

// get reads one preference value; a missing key reads as empty.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preference %s: %w", key, err)
	}
	return value, nil
}

// update runs fn inside a transaction as an atomic read-modify-write of one
// preference value. Writes to distinct keys never interfere; writes to the
// same key are serialized by the database.
func (s *Store) update(ctx context.Context, key string, fn func(old string) (string, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edit: %w", err)
	}
	defer tx.Rollback()

	var old string
	err = tx.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&old)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read preference %s: %w", key, err)
	}

	value, err := fn(old)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}

	return tx.Commit()
}

// decodeList deserializes a JSON collection. Corrupted or incompatible data
// degrades to an empty collection: the failure is logged, not propagated.
func decodeList[T any](key, raw string) []T {
	if raw == "" {
		return nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.Warn("Discarding unreadable collection", "key", key, "error", err)
		return nil
	}
	return list
}

func encodeList[T any](list []T) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("serialize collection: %w", err)
	}
	return string(data), nil
}

func parseBalance(raw string) int64 {
	if raw == "" {
		return 0
	}
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("Discarding unreadable balance", "value", raw, "error", err)
		return 0
	}
	return cents
}
