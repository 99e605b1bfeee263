package service

import (
	"sync"
)

// loanLocks serializes mutating operations on a single loan. Repayment
// allocation and rate-change recalculation both read-then-write the
// installment set; running them concurrently on one loan could double-settle
// an installment or lose an update.
type loanLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newLoanLocks() *loanLocks {
	return &loanLocks{locks: make(map[int]*sync.Mutex)}
}

// Lock acquires the mutex for the given loan, creating it on first use
func (l *loanLocks) Lock(loanID int) {
	l.mu.Lock()
	m, ok := l.locks[loanID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[loanID] = m
	}
	l.mu.Unlock()

	m.Lock()
}

// Unlock releases the mutex for the given loan
func (l *loanLocks) Unlock(loanID int) {
	l.mu.Lock()
	m := l.locks[loanID]
	l.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
