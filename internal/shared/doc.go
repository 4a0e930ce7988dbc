// Package shared holds helpers used across packages that belong to no single
// layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler, which captures slog records for assertions
//	- record fixtures (Record, Series, Dataset) built on ISO weeks
//	- SampleCSV, a two-page three-week export used by ingestion and handler tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    ds := testutil.Dataset(testutil.Series("P1", 2025, 1, [2]int64{100, 10})...)
//	    // ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
