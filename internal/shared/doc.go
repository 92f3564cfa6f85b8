// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and the bundled accident_<YEAR>.csv.bz2 fixtures used by the
// loader, summarizer, exporter and HTTP tests.
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    dir := testutil.CopyFixtures(t, "accident_2013.csv.bz2")
//	    // ...
//	}
package shared
