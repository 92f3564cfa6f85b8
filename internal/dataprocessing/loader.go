package dataprocessing

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"farsreport/internal/errors"
)

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 1000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TableLoader loads a named data file into a Table.
type TableLoader interface {
	Load(ctx context.Context, filename string) (*Table, error)
}

// Table is a parsed CSV file: a header and string cells addressed by column name.
type Table struct {
	Source string

	header []string
	index  map[string]int
	rows   [][]string
}

// NewTable builds a Table from a header and rows. Every row must have
// len(header) cells.
func NewTable(source string, header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return &Table{Source: source, header: header, index: index, rows: rows}
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.header) }

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the raw cells of column name.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.NewParsingError(fmt.Sprintf("column %s not found in %s", name, t.Source), nil).
			WithContext("column", name)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Ints parses column name as integers. Any cell that is not an integer is an error.
func (t *Table) Ints(name string) ([]int, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(cells))
	for r, cell := range cells {
		v, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("column %s row %d of %s is not an integer: %q", name, r+1, t.Source, cell), err).
				WithContext("column", name).
				WithContext("row", r+1)
		}
		out[r] = v
	}
	return out, nil
}

// Floats parses column name as floats. Empty or unparsable cells become NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for r, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			v = math.NaN()
		}
		out[r] = v
	}
	return out, nil
}

// FileLoader reads compressed CSV files from a base directory.
type FileLoader struct {
	baseDir string
	logger  *slog.Logger
}

// NewFileLoader creates a loader resolving relative file names against baseDir.
func NewFileLoader(baseDir string, logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLoader{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "file_loader")),
	}
}

// BaseDir returns the directory relative file names are resolved against.
func (l *FileLoader) BaseDir() string {
	return l.baseDir
}

// Path returns the full path of filename.
func (l *FileLoader) Path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(l.baseDir, filename)
}

// Load reads filename into a Table. A missing file fails with a NOT_FOUND
// AppError before anything is opened. Files ending in .bz2 or .gz are
// decompressed; anything else is read as plain CSV.
func (l *FileLoader) Load(ctx context.Context, filename string) (*Table, error) {
	start := time.Now()
	path := l.Path(filename)

	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(filename)
		}
		return nil, errors.NewStorageError(fmt.Sprintf("cannot stat %s", filename), err).
			WithContext("filename", filename)
	}
	if info.IsDir() {
		return nil, errors.NewStorageError(fmt.Sprintf("%s is a directory", filename), nil).
			WithContext("filename", filename)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("cannot open %s", filename), err).
			WithContext("filename", filename)
	}
	defer f.Close()

	r, err := decompress(f, filename)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to decompress %s", filename), err).
			WithContext("filename", filename)
	}

	table, err := readCSV(ctx, r, filename)
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "loaded data file",
		slog.String("filename", filename),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()),
		slog.Duration("duration", time.Since(start)))

	return table, nil
}

// decompress picks a decompressor by file extension.
func decompress(r io.Reader, filename string) (io.Reader, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(r)
	default:
		return r, nil
	}
}

// readCSV parses a header row followed by data rows. Rows whose field count
// differs from the header are rejected.
func readCSV(ctx context.Context, r io.Reader, filename string) (*Table, error) {
	parseErr := func(err error) error {
		return errors.NewParsingError(fmt.Sprintf("failed to parse %s", filename), err).
			WithContext("filename", filename)
	}

	br := bufio.NewReader(r)
	bom, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return nil, parseErr(err)
	}
	if bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, parseErr(stderrors.New("file has no header row"))
	}
	if err != nil {
		return nil, parseErr(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		if len(rows)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseErr(err)
		}
		rows = append(rows, record)
	}

	return NewTable(filename, header, rows), nil
}
