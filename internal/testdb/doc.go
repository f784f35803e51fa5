//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can run in parallel against one database without
// cleanup.
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//	        ...
//	    })
//	}
//
// The database URL is read from LUMO_TEST_DATABASE_URL, then DATABASE_URL.
// Tests are skipped when neither is set. The embedded migrations are
// applied once per test binary.
package testdb
