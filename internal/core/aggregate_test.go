package core

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAllTimeTotals(t *testing.T) {
	transactions := []Transaction{
		{Name: "salary", Category: "Finance", Amount: 100, IsIncome: true},
		{Name: "bonus", Category: "Finance", Amount: 50, IsIncome: true},
		{Name: "rent", Category: "Home", Amount: 70},
		{Name: "food", Category: "Food", Amount: 30},
	}

	if got := TotalIncome(transactions); !almostEqual(got, 150) {
		t.Errorf("TotalIncome = %v, want 150", got)
	}
	if got := TotalExpenses(transactions); !almostEqual(got, 100) {
		t.Errorf("TotalExpenses = %v, want 100", got)
	}
}

func TestNetForPeriod(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	inMonth := MillisFromTime(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	outOfMonth := MillisFromTime(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))

	transactions := []Transaction{
		{Name: "salary", Category: "Finance", Amount: 200, IsIncome: true, Date: inMonth},
		{Name: "rent", Category: "Home", Amount: 80, Date: inMonth},
		{Name: "old salary", Category: "Finance", Amount: 500, IsIncome: true, Date: outOfMonth},
	}

	income, expenses := NetForPeriod(transactions, Month, now)
	if !almostEqual(income, 200) || !almostEqual(expenses, 80) {
		t.Errorf("NetForPeriod = (%v, %v), want (200, 80)", income, expenses)
	}
}

func TestSpendByCategory(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	date := MillisFromTime(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))

	transactions := []Transaction{
		{Name: "market", Category: "Food", Amount: 25, Date: date},
		{Name: "cafe", Category: "Food", Amount: 15, Date: date},
		{Name: "bus", Category: "Transport", Amount: 2, Date: date},
		{Name: "salary", Category: "Finance", Amount: 1000, IsIncome: true, Date: date},
	}

	spend := SpendByCategory(transactions, Month, now)
	if !almostEqual(spend["Food"], 40) {
		t.Errorf("spend[Food] = %v, want 40", spend["Food"])
	}
	if !almostEqual(spend["Transport"], 2) {
		t.Errorf("spend[Transport] = %v, want 2", spend["Transport"])
	}
	if _, ok := spend["Finance"]; ok {
		t.Error("income entries must not contribute to category spend")
	}
}

func TestOverspent(t *testing.T) {
	limits := []CategoryLimit{
		{Category: "Food", LimitAmount: 100, Period: Month},
		{Category: "Transport", LimitAmount: 50, Period: Month},
		{Category: "Fun", LimitAmount: 30, Period: Month},
	}

	tests := []struct {
		name  string
		spend map[string]float64
		want  []Overspend
	}{
		{
			name:  "spend equal to limit is not overspent",
			spend: map[string]float64{"Food": 100},
			want:  nil,
		},
		{
			name:  "one cent over the limit is overspent",
			spend: map[string]float64{"Food": 100.01},
			want:  []Overspend{{Category: "Food", Amount: 0.01}},
		},
		{
			name:  "no spend at all",
			spend: map[string]float64{},
			want:  nil,
		},
		{
			name:  "multiple categories keep limit order",
			spend: map[string]float64{"Fun": 45, "Transport": 60},
			want: []Overspend{
				{Category: "Transport", Amount: 10},
				{Category: "Fun", Amount: 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overspent(limits, tt.spend)
			if len(got) != len(tt.want) {
				t.Fatalf("Overspent returned %d entries, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Category != tt.want[i].Category || !almostEqual(got[i].Amount, tt.want[i].Amount) {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGoalPace(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	goal := Goal{
		ID:           MillisFromTime(created),
		Name:         "laptop",
		TargetAmount: 1000,
		Deadline:     MillisFromTime(created.AddDate(0, 0, 100)),
		PeriodUnit:   Month,
	}

	t.Run("zero deviation right after creation", func(t *testing.T) {
		p := goal.Pace(created)
		if !almostEqual(p.Deviation, 0) {
			t.Errorf("deviation = %v, want 0", p.Deviation)
		}
		if !almostEqual(p.RequiredDaily, 10) {
			t.Errorf("required daily pace = %v, want 10", p.RequiredDaily)
		}
	})

	t.Run("behind schedule halfway in", func(t *testing.T) {
		halfway := created.AddDate(0, 0, 50)
		p := goal.Pace(halfway)
		if !almostEqual(p.ExpectedSaved, 500) {
			t.Errorf("expected saved = %v, want 500", p.ExpectedSaved)
		}
		if !almostEqual(p.Deviation, -500) {
			t.Errorf("deviation = %v, want -500", p.Deviation)
		}
	})

	t.Run("ahead of schedule", func(t *testing.T) {
		ahead := goal
		ahead.SavedAmount = 300
		p := ahead.Pace(created.AddDate(0, 0, 10))
		if !almostEqual(p.Deviation, 200) {
			t.Errorf("deviation = %v, want 200", p.Deviation)
		}
	})

	t.Run("same day deadline clamps the span", func(t *testing.T) {
		sameDay := Goal{ID: goal.ID, TargetAmount: 100, Deadline: goal.ID}
		p := sameDay.Pace(created)
		if math.IsNaN(p.RequiredDaily) || math.IsInf(p.RequiredDaily, 0) {
			t.Errorf("required daily pace = %v, want finite", p.RequiredDaily)
		}
		if !almostEqual(p.RequiredDaily, 100) {
			t.Errorf("required daily pace = %v, want 100", p.RequiredDaily)
		}
	})

	t.Run("now before creation clamps elapsed to zero", func(t *testing.T) {
		p := goal.Pace(created.AddDate(0, 0, -5))
		if !almostEqual(p.ExpectedSaved, 0) {
			t.Errorf("expected saved = %v, want 0", p.ExpectedSaved)
		}
	})
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		saved  float64
		want   float64
	}{
		{name: "halfway", target: 200, saved: 100, want: 0.5},
		{name: "clamped above one", target: 100, saved: 150, want: 1},
		{name: "zero target yields zero", target: 0, saved: 50, want: 0},
		{name: "nothing saved", target: 100, saved: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{TargetAmount: tt.target, SavedAmount: tt.saved}
			if got := g.Progress(); !almostEqual(got, tt.want) {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}
