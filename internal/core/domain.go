package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Day   Period = "Day"
	Week  Period = "Week"
	Month Period = "Month"
	Year  Period = "Year"
)

// SavingsCategory is the category assigned to transactions synthesized by
// goal deposits and withdrawals.
const SavingsCategory = "Savings/Goals"

type (
	// Period is a calendar bucket used for limits, filters and goal deadlines.
	Period string

	// Transaction is a single income or expense entry. Amount is stored in
	// the canonical currency and is always non-negative; the direction is
	// carried by IsIncome. ID doubles as the creation timestamp in epoch
	// milliseconds.
	Transaction struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		IsIncome bool    `json:"isIncome"`
		Date     int64   `json:"date"`
	}

	// CategoryLimit is a spending cap for one category over one period.
	// The category is the natural key: a collection holds at most one
	// limit per category.
	CategoryLimit struct {
		Category    string  `json:"category"`
		LimitAmount float64 `json:"limitAmount"`
		Period      Period  `json:"period"`
	}

	// Goal is a savings target. ID doubles as the creation timestamp in
	// epoch milliseconds and anchors the pace math. ColorHex and Icon are
	// opaque tags resolved by the presentation layer.
	Goal struct {
		ID           int64   `json:"id"`
		Name         string  `json:"name"`
		TargetAmount float64 `json:"targetAmount"`
		SavedAmount  float64 `json:"savedAmount"`
		Deadline     int64   `json:"deadline"`
		ColorHex     string  `json:"colorHex"`
		Icon         string  `json:"icon"`
		PeriodUnit   Period  `json:"periodUnit"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidDeadline = errors.New("invalid deadline")
	ErrGoalNotFound    = errors.New("goal not found")
)

// ValidateLimitPeriod reports whether p is usable for category limits and
// period filters. Day is reserved for goal period units.
func ValidateLimitPeriod(p Period) error {
	switch p {
	case Week, Month, Year:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// ValidateGoalPeriodUnit reports whether p is usable as a goal period unit.
func ValidateGoalPeriodUnit(p Period) error {
	switch p {
	case Day, Week, Month, Year:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// ValidateAmount rejects amounts that are not strictly positive finite
// numbers. Boundary code calls this before anything reaches the ledger.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (l CategoryLimit) Validate() error {
	if strings.TrimSpace(l.Category) == "" {
		return ErrEmptyCategory
	}
	if err := ValidateAmount(l.LimitAmount); err != nil {
		return err
	}
	return ValidateLimitPeriod(l.Period)
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := ValidateAmount(g.TargetAmount); err != nil {
		return err
	}
	if math.IsNaN(g.SavedAmount) || math.IsInf(g.SavedAmount, 0) || g.SavedAmount < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline <= 0 {
		return ErrInvalidDeadline
	}
	return ValidateGoalPeriodUnit(g.PeriodUnit)
}

// TimeFromMillis converts an epoch-millisecond stamp to a time.Time.
func TimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// MillisFromTime converts a time.Time to the epoch-millisecond stamps used
// for transaction and goal ids and dates.
func MillisFromTime(t time.Time) int64 {
	return t.UnixMilli()
}

// Cents converts a canonical-currency amount to integer minor units with
// half-away-from-zero rounding. The balance accumulator is kept in cents so
// repeated additions do not accumulate float drift.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreatedAt returns the goal creation time derived from its id.
func (g Goal) CreatedAt() time.Time {
	return TimeFromMillis(g.ID)
}
