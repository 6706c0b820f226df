package ledger

import (
	"sync"

	"monetto/internal/core"
)

// subscriptions fans collection snapshots out to live subscribers. Each
// subscriber channel is buffered with capacity one and coalesces: when a
// subscriber lags, the stale snapshot is replaced by the newest one instead
// of blocking the writer.
type subscriptions struct {
	mu           sync.Mutex
	transactions []chan []core.Transaction
	limits       []chan []core.CategoryLimit
	goals        []chan []core.Goal
	currency     []chan core.Currency
}

// SubscribeTransactions returns a channel receiving every new transaction
// list snapshot.
func (l *Ledger) SubscribeTransactions() <-chan []core.Transaction {
	l.subs.mu.Lock()
	defer l.subs.mu.Unlock()
	ch := make(chan []core.Transaction, 1)
	l.subs.transactions = append(l.subs.transactions, ch)
	return ch
}

// SubscribeLimits returns a channel receiving every new limit list snapshot.
func (l *Ledger) SubscribeLimits() <-chan []core.CategoryLimit {
	l.subs.mu.Lock()
	defer l.subs.mu.Unlock()
	ch := make(chan []core.CategoryLimit, 1)
	l.subs.limits = append(l.subs.limits, ch)
	return ch
}

// SubscribeGoals returns a channel receiving every new goal list snapshot.
func (l *Ledger) SubscribeGoals() <-chan []core.Goal {
	l.subs.mu.Lock()
	defer l.subs.mu.Unlock()
	ch := make(chan []core.Goal, 1)
	l.subs.goals = append(l.subs.goals, ch)
	return ch
}

// SubscribeCurrency returns a channel receiving every display currency
// change.
func (l *Ledger) SubscribeCurrency() <-chan core.Currency {
	l.subs.mu.Lock()
	defer l.subs.mu.Unlock()
	ch := make(chan core.Currency, 1)
	l.subs.currency = append(l.subs.currency, ch)
	return ch
}

func (s *subscriptions) publishTransactions(snapshot []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.transactions {
		offer(ch, snapshot)
	}
}

func (s *subscriptions) publishLimits(snapshot []core.CategoryLimit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.limits {
		offer(ch, snapshot)
	}
}

func (s *subscriptions) publishGoals(snapshot []core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.goals {
		offer(ch, snapshot)
	}
}

func (s *subscriptions) publishCurrency(c core.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.currency {
		offer(ch, c)
	}
}

// offer delivers v without blocking: a full buffer is drained first so the
// subscriber always observes the latest snapshot.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
