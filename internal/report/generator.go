// Package report renders the outcome of a sync run as a machine-readable
// document, so that scheduled runs can be audited after the fact.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/ledger-sync/internal/batch"
	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/fileutils"
	"fjacquet/ledger-sync/internal/logging"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunReport is the serializable form of a sync summary.
type RunReport struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	GeneratedAt  string         `json:"generated_at" yaml:"generated_at"`
	WindowStart  string         `json:"window_start" yaml:"window_start"`
	WindowEnd    string         `json:"window_end" yaml:"window_end"`
	FetchSkipped bool           `json:"fetch_skipped" yaml:"fetch_skipped"`
	Fetched      int            `json:"fetched" yaml:"fetched"`
	Available    int            `json:"available" yaml:"available"`
	Existing     int            `json:"existing" yaml:"existing"`
	Appended     int            `json:"appended" yaml:"appended"`
	Duplicates   int            `json:"duplicates" yaml:"duplicates"`
	Excluded     int            `json:"excluded" yaml:"excluded"`
	Lookalikes   int            `json:"potential_duplicates" yaml:"potential_duplicates"`
	Inferred     int            `json:"categories_inferred" yaml:"categories_inferred"`
	Unresolved   int            `json:"uncategorized" yaml:"uncategorized"`
	ByStrategy   map[string]int `json:"by_strategy,omitempty" yaml:"by_strategy,omitempty"`
	NewRowsStart string         `json:"new_rows_start,omitempty" yaml:"new_rows_start,omitempty"`
	NewRowsEnd   string         `json:"new_rows_end,omitempty" yaml:"new_rows_end,omitempty"`
	Unmapped     []string       `json:"unmapped_masks,omitempty" yaml:"unmapped_masks,omitempty"`
	Total        int            `json:"total" yaml:"total"`
	OutputPath   string         `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DryRun       bool           `json:"dry_run" yaml:"dry_run"`
}

// FromSummary builds a RunReport stamped with generatedAt.
func FromSummary(s batch.Summary, generatedAt time.Time) RunReport {
	r := RunReport{
		RunID:        s.RunID,
		GeneratedAt:  generatedAt.UTC().Format(time.RFC3339),
		WindowStart:  dateutils.ToISODate(s.Window.Start),
		WindowEnd:    dateutils.ToISODate(s.Window.End),
		FetchSkipped: s.FetchSkipped,
		Fetched:      s.Fetched,
		Available:    s.Available,
		Existing:     s.Merge.Existing,
		Appended:     s.Merge.Appended,
		Duplicates:   s.Merge.Duplicates,
		Excluded:     s.Merge.Excluded,
		Lookalikes:   s.Merge.PotentialDuplicate,
		Inferred:     s.Inference.Inferred,
		Unresolved:   s.Inference.Unresolved,
		ByStrategy:   s.Inference.ByStrategy,
		NewRowsStart: dateutils.ToISODate(s.NewRows.Start),
		NewRowsEnd:   dateutils.ToISODate(s.NewRows.End),
		Unmapped:     s.UnmappedMasks,
		Total:        s.Total,
		DryRun:       s.DryRun,
	}
	if !s.DryRun {
		r.OutputPath = s.OutputPath
	}
	return r
}

// FormatForPath picks the report format from a file extension; anything
// other than .yaml or .yml is JSON.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReportGenerator renders run reports.
type ReportGenerator struct {
	logger logging.Logger
	now    func() time.Time
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
		now:    time.Now,
	}
}

// GenerateReport renders summary in the given format (json or yaml).
func (g *ReportGenerator) GenerateReport(summary batch.Summary, format string) ([]byte, error) {
	r := FromSummary(summary, g.now())
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders summary and atomically writes it to path, choosing
// the format from the extension.
func (g *ReportGenerator) WriteReport(summary batch.Summary, path string) error {
	data, err := g.GenerateReport(summary, FormatForPath(path))
	if err != nil {
		return err
	}
	err = fileutils.WriteAtomic(path, 0644, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("Wrote run report",
		logging.F(logging.FieldRunID, summary.RunID),
		logging.F(logging.FieldFile, path))
	return nil
}
