package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"

	"farsreport/internal/errors"
	"farsreport/internal/files"
	api "farsreport/pkg/contracts/api/v1"
	"farsreport/pkg/contracts/domain"
)

// SummarySheet is the worksheet name of XLSX exports.
const SummarySheet = "Summary"

// SummaryWriter renders summary tables.
type SummaryWriter struct {
	logger  *slog.Logger
	manager *files.Manager
	bom     bool
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithBOM prefixes CSV output with a UTF-8 BOM so spreadsheets detect the encoding.
func WithBOM(enabled bool) SummaryWriterOption {
	return func(w *SummaryWriter) { w.bom = enabled }
}

// WithManager sets the file manager used by WriteFile.
func WithManager(m *files.Manager) SummaryWriterOption {
	return func(w *SummaryWriter) { w.manager = m }
}

// NewSummaryWriter creates a writer.
func NewSummaryWriter(logger *slog.Logger, opts ...SummaryWriterOption) *SummaryWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &SummaryWriter{logger: logger.With(slog.String("component", "summary_writer"))}
	for _, opt := range opts {
		opt(w)
	}
	if w.manager == nil {
		w.manager = files.NewManager("", logger)
	}
	return w
}

// Write renders t to out in the given format.
func (w *SummaryWriter) Write(out io.Writer, t *domain.SummaryTable, failedYears []string, format Format) error {
	switch format {
	case FormatCSV:
		return w.WriteCSV(out, t)
	case FormatJSON:
		return w.WriteJSON(out, t, failedYears)
	case FormatXLSX:
		return w.WriteXLSX(out, t)
	case FormatTable:
		return w.WriteTable(out, t)
	default:
		return errors.NewAppValidationError(fmt.Sprintf("unsupported format %q", format))
	}
}

// WriteCSV writes a MONTH column followed by one column per year.
// Missing cells are empty.
func (w *SummaryWriter) WriteCSV(out io.Writer, t *domain.SummaryTable) error {
	if w.bom {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(headerRow(t)); err != nil {
		return errors.NewStorageError("failed to write CSV header row", err)
	}

	for _, row := range t.Rows() {
		record := make([]string, 0, len(row.Cells)+1)
		record = append(record, strconv.Itoa(row.Month))
		for _, c := range row.Cells {
			record = append(record, formatCell(c, ""))
		}
		if err := cw.Write(record); err != nil {
			return errors.NewStorageError("failed to write CSV data row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV output", err)
	}
	return nil
}

// WriteJSON writes the api.SummaryResponse form of t.
func (w *SummaryWriter) WriteJSON(out io.Writer, t *domain.SummaryTable, failedYears []string) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(api.NewSummaryResponse(t, failedYears)); err != nil {
		return errors.NewStorageError("failed to write JSON summary", err)
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook with a bold header row
// and a TOTAL row.
func (w *SummaryWriter) WriteXLSX(out io.Writer, t *domain.SummaryTable) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return errors.NewStorageError("failed to create worksheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewStorageError("failed to remove default worksheet", err)
	}

	header := headerRow(t)
	for col, name := range header {
		if err := setCell(f, col+1, 1, name); err != nil {
			return err
		}
	}

	rows := t.Rows()
	for r, row := range rows {
		if err := setCell(f, 1, r+2, row.Month); err != nil {
			return err
		}
		for c, cell := range row.Cells {
			if !cell.Valid {
				continue
			}
			if err := setCell(f, c+2, r+2, cell.Count); err != nil {
				return err
			}
		}
	}

	totalRow := len(rows) + 2
	if err := setCell(f, 1, totalRow, "TOTAL"); err != nil {
		return err
	}
	for c, year := range t.Years() {
		if err := setCell(f, c+2, totalRow, t.ColumnTotal(year)); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.NewStorageError("failed to create header style", err)
	}
	last, err := cellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", last, bold); err != nil {
		return errors.NewStorageError("failed to style header row", err)
	}

	if err := f.Write(out); err != nil {
		return errors.NewStorageError("failed to write workbook", err)
	}
	return nil
}

func cellName(col, row int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", errors.NewStorageError("invalid cell coordinates", err).
			WithContext("column", col).
			WithContext("row", row)
	}
	return name, nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	name, err := cellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, name, value); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to set cell %s", name), err)
	}
	return nil
}

// WriteTable draws t as a bordered terminal table with NA for missing cells
// and a closing TOTAL row.
func (w *SummaryWriter) WriteTable(out io.Writer, t *domain.SummaryTable) error {
	rows := make([][]string, 0, t.NumRows()+1)
	for _, row := range t.Rows() {
		record := make([]string, 0, len(row.Cells)+1)
		record = append(record, strconv.Itoa(row.Month))
		for _, c := range row.Cells {
			record = append(record, formatCell(c, MissingText))
		}
		rows = append(rows, record)
	}

	totals := make([]string, 0, t.NumCols()+1)
	totals = append(totals, "TOTAL")
	for _, year := range t.Years() {
		totals = append(totals, strconv.Itoa(t.ColumnTotal(year)))
	}
	rows = append(rows, totals)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headerRow(t)...).
		Rows(rows...)

	if _, err := fmt.Fprintln(out, tbl.Render()); err != nil {
		return errors.NewStorageError("failed to write table", err)
	}
	return nil
}

// WriteFile writes t to path, choosing the format from the extension. The
// file appears only once fully written.
func (w *SummaryWriter) WriteFile(ctx context.Context, path string, t *domain.SummaryTable, failedYears []string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	replaced := w.manager.FileExists(path)
	err = w.manager.WriteFile(path, func(out io.Writer) error {
		return w.Write(out, t, failedYears, format)
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return err
		}
		return errors.NewStorageError(fmt.Sprintf("failed to write %s", path), err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "wrote summary",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("months", t.NumRows()),
		slog.Int("years", t.NumCols()),
		slog.Bool("replaced", replaced))
	return nil
}
