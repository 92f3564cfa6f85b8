package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farsreport/internal/errors"
	"farsreport/internal/infrastructure"
	"farsreport/internal/shared/testutil"
	"farsreport/pkg/contracts/domain"
)

func newFixtureYearLoader(t *testing.T, opts ...MultiYearOption) (*MultiYearLoader, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return NewMultiYearLoader(NewFileLoader(testutil.FixturesDir(), logger), logger, opts...), logs
}

func TestMultiYearLoader_IsolatesFailures(t *testing.T) {
	m, logs := newFixtureYearLoader(t)

	tables := m.LoadYears(context.Background(), []any{2014, 9999})

	require.Len(t, tables, 2)
	require.NotNil(t, tables[0])
	assert.Equal(t, testutil.Fixture2014Rows, tables[0].Len())
	assert.Nil(t, tables[1])

	warnings := logs.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Equal(t, "failed to load year", warnings[0].Message)
	assert.Equal(t, "9999", warnings[0].Attrs["year"])
}

func TestMultiYearLoader_PreservesOrder(t *testing.T) {
	years := []any{2015, "2013", 9999, 2014}
	wantRows := []int{testutil.Fixture2015Rows, testutil.Fixture2013Rows, 0, testutil.Fixture2014Rows}
	wantYears := []int{2015, 2013, 9999, 2014}

	for _, n := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("concurrency %d", n), func(t *testing.T) {
			m, _ := newFixtureYearLoader(t, WithConcurrency(n))

			results := m.LoadYearResults(context.Background(), years)
			require.Len(t, results, len(years))

			for i, r := range results {
				assert.Equal(t, years[i], r.Requested)
				assert.Equal(t, wantYears[i], r.Year.Value)
				assert.Equal(t, wantRows[i], r.Table.Len())
				assert.Equal(t, fmt.Sprintf("accident_%d.csv.bz2", wantYears[i]), r.Filename)
			}
			assert.False(t, results[2].OK())
			assert.ErrorIs(t, results[2].Err, errors.ErrFileNotFound)
		})
	}
}

func TestMultiYearLoader_ProjectsMonthAndRequestedYear(t *testing.T) {
	m, _ := newFixtureYearLoader(t)

	tables := m.LoadYears(context.Background(), []any{2013})
	require.NotNil(t, tables[0])

	counts := make(map[int]int)
	for _, rec := range tables[0].Records {
		assert.Equal(t, 2013, rec.Year)
		counts[rec.Month]++
	}
	assert.Equal(t, testutil.Fixture2013Months, counts)
	assert.Equal(t, "accident_2013.csv.bz2", tables[0].Source)
	assert.True(t, tables[0].Year.Valid)
}

func TestMultiYearLoader_InvalidYear(t *testing.T) {
	m, logs := newFixtureYearLoader(t)

	results := m.LoadYearResults(context.Background(), []any{"abc"})

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Table)
	assert.False(t, results[0].Year.Valid)
	assert.Equal(t, "accident_NA.csv.bz2", results[0].Filename)
	assert.ErrorIs(t, results[0].Err, errors.ErrFileNotFound)

	assert.True(t, logs.ContainsMessage("year could not be coerced to an integer"))
	assert.Len(t, logs.GetRecordsByMessage("failed to load year"), 1)
}

func TestMultiYearLoader_MonthOutOfRange(t *testing.T) {
	m, logs := newFixtureYearLoader(t)

	results := m.LoadYearResults(context.Background(), []any{2016, 2015})

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Table)
	assert.Equal(t, []domain.IncidentRecord{{Month: 3, Year: 2016}}, results[0].Table.Records)
	assert.Equal(t, testutil.Fixture2015Rows, results[1].Table.Len())

	warns := logs.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "dropped rows with MONTH out of range", warns[0].Message)
	assert.Equal(t, "2016", warns[0].Attrs["year"])
	assert.EqualValues(t, 1, warns[0].Attrs["dropped_rows"])
	assert.EqualValues(t, 2, warns[0].Attrs["first_row"])
}

func TestMultiYearLoader_NonIntegerMonth(t *testing.T) {
	loader := stubLoader{tables: map[string]*Table{
		"accident_2020.csv.bz2": NewTable("accident_2020.csv.bz2", []string{"MONTH"}, [][]string{{"1"}, {"June"}}),
	}}
	m := NewMultiYearLoader(loader, nil)

	results := m.LoadYearResults(context.Background(), []any{2020})
	assert.Nil(t, results[0].Table)
	assert.True(t, errors.IsType(results[0].Err, errors.ErrTypeParsing))
}

func TestMultiYearLoader_MissingMonthColumn(t *testing.T) {
	loader := stubLoader{tables: map[string]*Table{
		"accident_2020.csv.bz2": NewTable("accident_2020.csv.bz2", []string{"STATE"}, [][]string{{"1"}}),
	}}
	m := NewMultiYearLoader(loader, nil)

	results := m.LoadYearResults(context.Background(), []any{2020})
	assert.True(t, errors.IsType(results[0].Err, errors.ErrTypeParsing))
}

func TestMultiYearLoader_Cancelled(t *testing.T) {
	m, logs := newFixtureYearLoader(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := m.LoadYearResults(ctx, []any{2013, 2014})
	for _, r := range results {
		assert.Nil(t, r.Table)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Len(t, logs.GetRecordsByLevel(slog.LevelWarn), 2)
}

func TestMultiYearLoader_Empty(t *testing.T) {
	m, logs := newFixtureYearLoader(t)

	assert.Empty(t, m.LoadYears(context.Background(), nil))
	assert.Zero(t, logs.Count())
}

func TestMultiYearLoader_ConcurrencyLimit(t *testing.T) {
	loader := &countingLoader{delay: 20 * time.Millisecond}
	m := NewMultiYearLoader(loader, nil,
		WithConcurrency(2),
		WithTracer(infrastructure.NoopProviders(nil).Tracer))

	years := []any{2001, 2002, 2003, 2004, 2005, 2006}
	results := m.LoadYearResults(context.Background(), years)

	require.Len(t, results, len(years))
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, years[i], r.Year.Value)
	}
	assert.LessOrEqual(t, loader.max.Load(), int32(2))
	assert.Equal(t, int32(len(years)), loader.calls.Load())
}

func TestMultiYearLoader_Metrics(t *testing.T) {
	metrics, err := infrastructure.NewPipelineMetrics(nil)
	require.NoError(t, err)

	m, _ := newFixtureYearLoader(t, WithMetrics(metrics), WithConcurrency(0))
	assert.Equal(t, 1, m.concurrency)

	tables := m.LoadYears(context.Background(), []any{2015, 1900})
	assert.NotNil(t, tables[0])
	assert.Nil(t, tables[1])
}

// stubLoader serves prebuilt tables by file name.
type stubLoader struct {
	tables map[string]*Table
}

func (s stubLoader) Load(_ context.Context, filename string) (*Table, error) {
	if t, ok := s.tables[filename]; ok {
		return t, nil
	}
	return nil, errors.NewFileNotFoundError(filename)
}

// countingLoader tracks how many loads run at once.
type countingLoader struct {
	delay  time.Duration
	mu     sync.Mutex
	active int32
	max    atomic.Int32
	calls  atomic.Int32
}

func (c *countingLoader) Load(_ context.Context, filename string) (*Table, error) {
	c.calls.Add(1)

	c.mu.Lock()
	c.active++
	if c.active > c.max.Load() {
		c.max.Store(c.active)
	}
	c.mu.Unlock()

	time.Sleep(c.delay)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()

	return NewTable(filename, []string{"MONTH"}, [][]string{{"1"}, {"2"}}), nil
}

func TestMultiYearLoader_Observers(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	m, _ := newFixtureYearLoader(t,
		WithConcurrency(2),
		WithObserver(nil),
		WithObserver(func(_ context.Context, r YearResult) {
			mu.Lock()
			defer mu.Unlock()
			seen[r.Year.String()] = r.OK()
		}),
	)

	m.LoadYearResults(context.Background(), []any{2013, 9999, "2015"})

	assert.Equal(t, map[string]bool{"2013": true, "9999": false, "2015": true}, seen)
}
