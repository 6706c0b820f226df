package ledger

import (
	"context"
	"fmt"
	"math"

	"monetto/internal/core"
)

// Dashboard is the home-screen aggregate view. All amounts are converted to
// the active display currency.
type Dashboard struct {
	Currency      core.Currency `json:"currency"`
	Period        core.Period   `json:"period"`
	Balance       float64       `json:"balance"`
	TotalIncome   float64       `json:"totalIncome"`
	TotalExpenses float64       `json:"totalExpenses"`
	NetIncome     float64       `json:"netIncome"`
	NetExpenses   float64       `json:"netExpenses"`
}

// LimitStatus pairs a category limit with its period spend. Amounts are in
// the display currency; Progress is the spent fraction clamped to [0, 1].
type LimitStatus struct {
	Category string      `json:"category"`
	Limit    float64     `json:"limit"`
	Period   core.Period `json:"period"`
	Spent    float64     `json:"spent"`
	Progress float64     `json:"progress"`
}

// Report is the limits screen view for one filter period.
type Report struct {
	Currency  core.Currency    `json:"currency"`
	Period    core.Period      `json:"period"`
	Limits    []LimitStatus    `json:"limits"`
	Overspent []core.Overspend `json:"overspent"`
}

// GoalStatus pairs a goal with its progress and pace, amounts in the
// display currency.
type GoalStatus struct {
	Goal     core.Goal `json:"goal"`
	Progress float64   `json:"progress"`
	Pace     core.Pace `json:"pace"`
}

// Dashboard computes the aggregate view for the given filter period
// relative to now.
func (l *Ledger) Dashboard(ctx context.Context, period core.Period) (Dashboard, error) {
	transactions, err := l.store.Transactions(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load transactions: %w", err)
	}
	balanceCents, err := l.store.BalanceCents(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load balance: %w", err)
	}

	c := l.Currency()
	netIncome, netExpenses := core.NetForPeriod(transactions, period, l.now())

	return Dashboard{
		Currency:      c,
		Period:        period,
		Balance:       c.ToDisplay(float64(balanceCents) / 100.0),
		TotalIncome:   c.ToDisplay(core.TotalIncome(transactions)),
		TotalExpenses: c.ToDisplay(core.TotalExpenses(transactions)),
		NetIncome:     c.ToDisplay(netIncome),
		NetExpenses:   c.ToDisplay(netExpenses),
	}, nil
}

// Report computes limit progress and overspend for the given filter period.
func (l *Ledger) Report(ctx context.Context, period core.Period) (Report, error) {
	transactions, err := l.store.Transactions(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load transactions: %w", err)
	}
	limits, err := l.store.Limits(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load limits: %w", err)
	}

	c := l.Currency()
	spend := core.SpendByCategory(transactions, period, l.now())

	statuses := make([]LimitStatus, 0, len(limits))
	for _, limit := range limits {
		spent := spend[limit.Category]
		progress := 0.0
		if limit.LimitAmount > 0 {
			progress = math.Min(1, spent/limit.LimitAmount)
		}
		statuses = append(statuses, LimitStatus{
			Category: limit.Category,
			Limit:    c.ToDisplay(limit.LimitAmount),
			Period:   limit.Period,
			Spent:    c.ToDisplay(spent),
			Progress: progress,
		})
	}

	overspent := core.Overspent(limits, spend)
	for i := range overspent {
		overspent[i].Amount = c.ToDisplay(overspent[i].Amount)
	}

	return Report{
		Currency:  c,
		Period:    period,
		Limits:    statuses,
		Overspent: overspent,
	}, nil
}

// GoalStatuses returns every goal with its progress and pace at now,
// amounts converted to the display currency.
func (l *Ledger) GoalStatuses(ctx context.Context) ([]GoalStatus, error) {
	goals, err := l.store.Goals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	c := l.Currency()
	now := l.now()

	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		// Progress and pace are computed on canonical amounts, the view
		// fields are then converted.
		progress := g.Progress()
		pace := g.Pace(now)
		pace.RequiredDaily = c.ToDisplay(pace.RequiredDaily)
		pace.ExpectedSaved = c.ToDisplay(pace.ExpectedSaved)
		pace.Deviation = c.ToDisplay(pace.Deviation)

		view := g
		view.TargetAmount = c.ToDisplay(g.TargetAmount)
		view.SavedAmount = c.ToDisplay(g.SavedAmount)

		statuses = append(statuses, GoalStatus{Goal: view, Progress: progress, Pace: pace})
	}
	return statuses, nil
}
