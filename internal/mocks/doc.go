// Package mocks provides centralized test doubles for the store, service
// and auth interfaces.
//
// Store mocks are in-memory fakes that behave like the Postgres stores
// (sentinel errors, insertion order, idempotent edge writes). Every method
// can be overridden by setting the matching XxxFn field:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, errors.New("boom")
//	}
//
// Service mocks have no default behaviour beyond returning zero values.
package mocks
