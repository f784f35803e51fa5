package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lumo-api/internal/store"
)

// MockTransactor implements store.Transactor without a database. fn runs
// with a nil *sql.Tx, so it must only be used with mock stores whose WithTx
// ignores its argument. Writes made before fn fails are not undone.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	mu       sync.Mutex
	Calls    int
	Failures int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor.
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	err := fn(ctx, nil)
	if err != nil {
		m.mu.Lock()
		m.Failures++
		m.mu.Unlock()
	}
	return err
}
