package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"farsreport/internal/errors"
	"farsreport/internal/shared/testutil"
	api "farsreport/pkg/contracts/api/v1"
	"farsreport/pkg/contracts/domain"
)

// sampleTable has months 1-3 and years 2013-2014 with two missing cells.
func sampleTable() *domain.SummaryTable {
	return domain.NewSummaryTable(map[domain.MonthYear]int{
		{Month: 1, Year: 2013}: 3,
		{Month: 1, Year: 2014}: 2,
		{Month: 2, Year: 2013}: 1,
		{Month: 3, Year: 2014}: 4,
	})
}

const sampleCSV = "MONTH,2013,2014\n1,3,2\n2,1,\n3,,4\n"

func TestSummaryWriter_WriteCSV(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("missing cells are empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewSummaryWriter(logger).WriteCSV(&buf, sampleTable()))
		assert.Equal(t, sampleCSV, buf.String())
	})

	t.Run("with BOM", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewSummaryWriter(logger, WithBOM(true)).WriteCSV(&buf, sampleTable()))
		assert.Equal(t, "\xEF\xBB\xBF"+sampleCSV, buf.String())
	})
}

func TestSummaryWriter_WriteJSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	var buf bytes.Buffer
	require.NoError(t, NewSummaryWriter(logger).WriteJSON(&buf, sampleTable(), []string{"9999"}))
	assert.Contains(t, buf.String(), `"2014": null`)

	var resp api.SummaryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))

	assert.Equal(t, []int{1, 2, 3}, resp.Months)
	assert.Equal(t, []int{2013, 2014}, resp.Years)
	assert.Equal(t, []string{"9999"}, resp.FailedYears)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, domain.Cell{Count: 1, Valid: true}, resp.Rows[1].Counts["2013"])
	assert.False(t, resp.Rows[1].Counts["2014"].Valid)
	assert.False(t, resp.Rows[2].Counts["2013"].Valid)
}

func TestSummaryWriter_WriteXLSX(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	var buf bytes.Buffer
	require.NoError(t, NewSummaryWriter(logger).WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet}, f.GetSheetList())

	cells := map[string]string{
		"A1": "MONTH", "B1": "2013", "C1": "2014",
		"A2": "1", "B2": "3", "C2": "2",
		"A3": "2", "B3": "1", "C3": "",
		"A4": "3", "B4": "", "C4": "4",
		"A5": "TOTAL", "B5": "4", "C5": "6",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(SummarySheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestSummaryWriter_WriteTable(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	var buf bytes.Buffer
	require.NoError(t, NewSummaryWriter(logger).WriteTable(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "MONTH")
	assert.Contains(t, out, "2013")
	assert.Contains(t, out, "2014")
	assert.Equal(t, 2, strings.Count(out, MissingText))

	var total string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "TOTAL") {
			total = line
		}
	}
	require.NotEmpty(t, total, "table ends with a TOTAL row")
	assert.Equal(t, []string{"TOTAL", "4", "6"}, strings.Fields(strings.ReplaceAll(total, "│", " ")))
}

func TestCellName(t *testing.T) {
	name, err := cellName(3, 5)
	require.NoError(t, err)
	assert.Equal(t, "C5", name)

	for _, tc := range [][2]int{{0, 1}, {1, 0}, {excelize.MaxColumns + 1, 1}} {
		_, err := cellName(tc[0], tc[1])
		require.Error(t, err, "col %d row %d", tc[0], tc[1])
		assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
	}
}

func TestSummaryWriter_Write(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	w := NewSummaryWriter(logger)

	for _, f := range []Format{FormatCSV, FormatJSON, FormatXLSX, FormatTable} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, w.Write(&buf, sampleTable(), nil, f))
			assert.NotZero(t, buf.Len())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, w.Write(&buf, sampleTable(), nil, Format("pdf")))
	})
}

func TestSummaryWriter_WriteFile(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	w := NewSummaryWriter(logger)
	dir := t.TempDir()

	t.Run("csv into a new directory", func(t *testing.T) {
		path := filepath.Join(dir, "reports", "summary.csv")
		require.NoError(t, w.WriteFile(context.Background(), path, sampleTable(), nil))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, string(data))
		assert.True(t, logs.ContainsMessage("wrote summary"))
		assert.True(t, logs.ContainsAttr("replaced", false))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("overwrite is logged", func(t *testing.T) {
		path := filepath.Join(dir, "reports", "summary.csv")
		logs.Clear()
		require.NoError(t, w.WriteFile(context.Background(), path, sampleTable(), nil))
		assert.True(t, logs.ContainsAttr("replaced", true))
	})

	t.Run("unknown extension writes nothing", func(t *testing.T) {
		path := filepath.Join(dir, "summary.txt")
		assert.Error(t, w.WriteFile(context.Background(), path, sampleTable(), nil))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}
