package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{ID: 1, Name: "salary", Category: "Finance", Amount: 100, IsIncome: true}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}, wantErr: nil},
		{name: "blank name", mutate: func(tr *Transaction) { tr.Name = "   " }, wantErr: ErrEmptyName},
		{name: "blank category", mutate: func(tr *Transaction) { tr.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "negative amount", mutate: func(tr *Transaction) { tr.Amount = -1 }, wantErr: ErrInvalidAmount},
		{name: "nan amount", mutate: func(tr *Transaction) { tr.Amount = math.NaN() }, wantErr: ErrInvalidAmount},
		{name: "zero amount allowed", mutate: func(tr *Transaction) { tr.Amount = 0 }, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid
			tt.mutate(&tr)
			if err := tr.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryLimitValidate(t *testing.T) {
	valid := CategoryLimit{Category: "Food", LimitAmount: 100, Period: Month}

	tests := []struct {
		name    string
		mutate  func(*CategoryLimit)
		wantErr error
	}{
		{name: "valid", mutate: func(*CategoryLimit) {}, wantErr: nil},
		{name: "blank category", mutate: func(l *CategoryLimit) { l.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "zero limit", mutate: func(l *CategoryLimit) { l.LimitAmount = 0 }, wantErr: ErrInvalidAmount},
		{name: "day period rejected", mutate: func(l *CategoryLimit) { l.Period = Day }, wantErr: ErrInvalidPeriod},
		{name: "unknown period rejected", mutate: func(l *CategoryLimit) { l.Period = "Fortnight" }, wantErr: ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			tt.mutate(&l)
			if err := l.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	now := time.Now()
	valid := Goal{
		ID:           MillisFromTime(now),
		Name:         "vacation",
		TargetAmount: 2000,
		Deadline:     MillisFromTime(now.AddDate(0, 6, 0)),
		ColorHex:     "#FF8800",
		Icon:         "beach",
		PeriodUnit:   Month,
	}

	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr error
	}{
		{name: "valid", mutate: func(*Goal) {}, wantErr: nil},
		{name: "day unit allowed", mutate: func(g *Goal) { g.PeriodUnit = Day }, wantErr: nil},
		{name: "blank name", mutate: func(g *Goal) { g.Name = " " }, wantErr: ErrEmptyName},
		{name: "zero target", mutate: func(g *Goal) { g.TargetAmount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative saved", mutate: func(g *Goal) { g.SavedAmount = -1 }, wantErr: ErrInvalidAmount},
		{name: "missing deadline", mutate: func(g *Goal) { g.Deadline = 0 }, wantErr: ErrInvalidDeadline},
		{name: "bad period unit", mutate: func(g *Goal) { g.PeriodUnit = "Quarter" }, wantErr: ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			if err := g.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{amount: 100, want: 10000},
		{amount: 0.01, want: 1},
		{amount: 100.005, want: 10001},
		{amount: 0, want: 0},
	}

	for _, tt := range tests {
		if got := Cents(tt.amount); got != tt.want {
			t.Errorf("Cents(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
