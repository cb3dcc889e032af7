// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Each test runs inside its own transaction, which is always rolled back,
// so tests never see each other's rows and need no cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(ctx context.Context, tx *sql.Tx) {
//	        users := postgres.NewUserStore(tx, bcrypt.MinCost)
//	        // ...
//	    })
//	}
//
// Tests skip themselves when DATABASE_URL is not set.
package testdb
