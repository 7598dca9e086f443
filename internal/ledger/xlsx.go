package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet read when none is configured.
const DefaultSheet = "Chase Transactions"

// XLSXSource reads the ledger from a worksheet of an Excel workbook.
type XLSXSource struct {
	Path   string
	Sheet  string
	logger logging.Logger
}

// NewXLSXSource creates an XLSXSource. An empty sheet means DefaultSheet.
func NewXLSXSource(path, sheet string, logger logging.Logger) *XLSXSource {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &XLSXSource{Path: path, Sheet: sheet, logger: logger}
}

// Name returns the source name used in errors.
func (s *XLSXSource) Name() string {
	return s.Path + "[" + s.Sheet + "]"
}

// Load reads the worksheet. Raw cell values are used so amounts keep full
// precision; date cells stored as serial numbers are converted to ISO dates.
func (s *XLSXSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("Reading ledger workbook",
		logging.F(logging.FieldFile, s.Path),
		logging.F("sheet", s.Sheet))

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close workbook", logging.F(logging.FieldFile, s.Path))
		}
	}()

	rows, err := f.GetRows(s.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", s.Sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	table := &Table{Header: rows[0], Rows: rows[1:]}
	for i, col := range table.Header {
		if strings.TrimSpace(col) != models.FieldDate {
			continue
		}
		for _, row := range table.Rows {
			if i < len(row) {
				row[i] = excelDate(row[i])
			}
		}
	}

	s.logger.Debug("Read ledger rows", logging.F(logging.FieldCount, len(table.Rows)))
	return table, nil
}

// excelDate converts a serial date cell to YYYY-MM-DD and leaves text
// dates alone.
func excelDate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return dateutils.ToISODate(dateutils.TruncateDay(t))
}
