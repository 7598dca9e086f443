package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/ledger-sync/internal/logging"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSource reads the ledger from a Google Sheets worksheet.
type SheetsSource struct {
	SpreadsheetID   string
	Sheet           string
	CredentialsFile string
	// Options are appended to the client options; tests use them to point
	// the client at a fake endpoint.
	Options []goption.ClientOption
	logger  logging.Logger
}

// NewSheetsSource creates a SheetsSource. An empty sheet means DefaultSheet.
func NewSheetsSource(spreadsheetID, sheet, credentialsFile string, logger logging.Logger) *SheetsSource {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &SheetsSource{
		SpreadsheetID:   spreadsheetID,
		Sheet:           sheet,
		CredentialsFile: credentialsFile,
		logger:          logger,
	}
}

// Name returns the source name used in errors.
func (s *SheetsSource) Name() string {
	return "sheets:" + s.SpreadsheetID + "[" + s.Sheet + "]"
}

func (s *SheetsSource) service(ctx context.Context) (*gsheet.Service, error) {
	var opts []goption.ClientOption
	if s.CredentialsFile != "" {
		credentialsJSON, err := os.ReadFile(s.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		opts = append(opts,
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	}
	opts = append(opts, s.Options...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// Load reads every populated row of the worksheet using formatted values.
func (s *SheetsSource) Load(ctx context.Context) (*Table, error) {
	if strings.TrimSpace(s.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	s.logger.Info("Reading ledger sheet",
		logging.F("spreadsheet_id", s.SpreadsheetID),
		logging.F("sheet", s.Sheet))

	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, quoteSheet(s.Sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.Sheet, err)
	}
	if len(resp.Values) == 0 {
		return &Table{}, nil
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = cellString(v)
		}
		rows[i] = row
	}

	s.logger.Debug("Read ledger rows", logging.F(logging.FieldCount, len(rows)-1))
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
