package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/ledger-sync/internal/logging"

	"github.com/gocarina/gocsv"
)

// CSVSource reads the ledger from a delimited text file.
type CSVSource struct {
	Path      string
	Delimiter rune
	logger    logging.Logger
}

// NewCSVSource creates a CSVSource. A zero delimiter means comma.
func NewCSVSource(path string, delimiter rune, logger logging.Logger) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVSource{Path: path, Delimiter: delimiter, logger: logger}
}

// Name returns the source name used in errors.
func (s *CSVSource) Name() string {
	return s.Path
}

// Load reads the whole file.
func (s *CSVSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("Reading ledger CSV file", logging.F(logging.FieldFile, s.Path))

	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, s.Path))
		}
	}()

	return s.read(file)
}

func (s *CSVSource) read(in io.Reader) (*Table, error) {
	reader := gocsv.LazyCSVReader(in)
	if r, ok := reader.(*csv.Reader); ok {
		r.Comma = s.Delimiter
		r.FieldsPerRecord = -1
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading ledger header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading ledger rows: %w", err)
	}

	s.logger.Debug("Read ledger rows", logging.F(logging.FieldCount, len(rows)))
	return &Table{Header: header, Rows: rows}, nil
}
