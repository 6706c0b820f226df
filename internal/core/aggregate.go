package core

import (
	"math"
	"time"
)

// Overspend reports by how much a category exceeded its limit within the
// filtered period. Amounts are canonical.
type Overspend struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Pace is the saving-pace snapshot of a goal at some instant. A positive
// Deviation means the goal is ahead of the linear schedule toward its
// deadline, a negative one means it is behind.
type Pace struct {
	RequiredDaily float64 `json:"requiredDaily"`
	ExpectedSaved float64 `json:"expectedSaved"`
	Deviation     float64 `json:"deviation"`
}

// TotalIncome sums all income amounts over the full history.
func TotalIncome(transactions []Transaction) float64 {
	var sum float64
	for _, t := range transactions {
		if t.IsIncome {
			sum += math.Abs(t.Amount)
		}
	}
	return sum
}

// TotalExpenses sums all expense amounts over the full history.
func TotalExpenses(transactions []Transaction) float64 {
	var sum float64
	for _, t := range transactions {
		if !t.IsIncome {
			sum += math.Abs(t.Amount)
		}
	}
	return sum
}

// NetForPeriod returns the income and expense totals restricted to the
// period around now. The net balance for the period is income - expenses.
func NetForPeriod(transactions []Transaction, p Period, now time.Time) (income, expenses float64) {
	filtered := FilterByPeriod(transactions, p, now)
	return TotalIncome(filtered), TotalExpenses(filtered)
}

// SpendByCategory groups expense amounts by category over the filtered
// period. Income entries never contribute.
func SpendByCategory(transactions []Transaction, p Period, now time.Time) map[string]float64 {
	spend := make(map[string]float64)
	for _, t := range FilterByPeriod(transactions, p, now) {
		if t.IsIncome {
			continue
		}
		spend[t.Category] += math.Abs(t.Amount)
	}
	return spend
}

// Overspent yields one entry per limit whose category spend strictly exceeds
// the limit amount. Spend exactly equal to the limit is not overspent.
// Output order follows the limits slice.
func Overspent(limits []CategoryLimit, spend map[string]float64) []Overspend {
	var out []Overspend
	for _, l := range limits {
		if s := spend[l.Category]; s > l.LimitAmount {
			out = append(out, Overspend{Category: l.Category, Amount: s - l.LimitAmount})
		}
	}
	return out
}

// Pace computes the goal's saving-pace snapshot at now. The total span is
// clamped to at least one day and the elapsed span to at least zero days, so
// the math stays total even for same-day deadlines or clock skew.
func (g Goal) Pace(now time.Time) Pace {
	created := g.CreatedAt()
	deadline := TimeFromMillis(g.Deadline)

	totalDays := math.Max(1, wholeDays(created, deadline))
	elapsedDays := math.Max(0, wholeDays(created, now))

	required := g.TargetAmount / totalDays
	expected := required * elapsedDays
	return Pace{
		RequiredDaily: required,
		ExpectedSaved: expected,
		Deviation:     g.SavedAmount - expected,
	}
}

// Progress returns the saved fraction of the target, clamped to [0, 1].
// A zero target reports zero progress instead of dividing by zero.
func (g Goal) Progress() float64 {
	if g.TargetAmount == 0 {
		return 0
	}
	p := g.SavedAmount / g.TargetAmount
	return math.Min(1, math.Max(0, p))
}

func wholeDays(from, to time.Time) float64 {
	return float64(int64(to.Sub(from).Hours() / 24))
}
