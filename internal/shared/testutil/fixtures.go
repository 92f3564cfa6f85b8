package testutil

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Row counts of the bundled accident fixtures.
const (
	Fixture2013Rows = 32
	Fixture2014Rows = 26
	Fixture2015Rows = 11
	FixtureColumns  = 14
)

// Fixture2013Months and friends are the per-month incident counts of the
// bundled fixtures.
var (
	Fixture2013Months = map[int]int{1: 3, 2: 2, 3: 4, 4: 1, 5: 3, 6: 2, 7: 5, 8: 3, 9: 2, 10: 4, 11: 1, 12: 2}
	Fixture2014Months = map[int]int{1: 2, 2: 3, 3: 1, 4: 2, 5: 4, 6: 3, 7: 2, 8: 1, 9: 3, 10: 2, 11: 2, 12: 1}
	Fixture2015Months = map[int]int{1: 1, 3: 2, 5: 2, 7: 3, 9: 1, 11: 2}
)

// FixturesDir returns the directory holding the bundled accident_<YEAR>.csv.bz2
// files. accident_2016.csv.bz2 contains an out-of-range MONTH value.
func FixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata")
}

// CopyFixtures copies the named fixture files into a fresh temporary
// directory and returns it.
func CopyFixtures(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		src, err := os.Open(filepath.Join(FixturesDir(), name))
		if err != nil {
			t.Fatalf("open fixture %s: %v", name, err)
		}

		dst, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			src.Close()
			t.Fatalf("create fixture copy %s: %v", name, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			t.Fatalf("copy fixture %s: %v", name, err)
		}
	}
	return dir
}

// WriteFile writes content to name inside dir and fails the test on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
