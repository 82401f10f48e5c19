package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/ingest"
	"github.com/KasumiMercury/compliance-watch/internal/service/progress"
)

var ErrStatusColumnsMissing = errors.New("status columns missing from document sheet")

type Config struct {
	SpreadsheetID  string
	DocumentsRange string
	ChecklistRange string
}

// Source reads documents from a spreadsheet and optionally mirrors computed
// status back into it. The sheet is the system of record; nothing is cached
// between calls.
type Source struct {
	service        *sheetsapi.Service
	spreadsheetID  string
	documentsRange string
	checklistRange string
}

var (
	_ domain.RecordSource = (*Source)(nil)
	_ domain.StatusMirror = (*Source)(nil)
)

func NewSource(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Source, error) {
	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &Source{
		service:        service,
		spreadsheetID:  cfg.SpreadsheetID,
		documentsRange: cfg.DocumentsRange,
		checklistRange: cfg.ChecklistRange,
	}, nil
}

func (s *Source) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.readRange(ctx, s.documentsRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecordSourceUnavailable, err)
	}

	progressByDoc, hasChecklist, err := s.checklistProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecordSourceUnavailable, err)
	}

	docs := make([]domain.DocumentRecord, 0, len(rows))
	for _, row := range rows {
		record, err := ingest.NormalizeRow(row.values, ingest.RowOptions{})
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed sheet row",
				slog.Int("line", row.line),
				slog.String("error", err.Error()),
			)
			continue
		}
		if hasChecklist {
			record.ProgressPercent = progressByDoc[record.ID]
		}
		docs = append(docs, record)
	}

	slog.DebugContext(ctx, "read documents from sheet",
		slog.Int("row_count", len(rows)),
		slog.Int("document_count", len(docs)),
	)

	return docs, nil
}

// checklistProgress computes progress per document from the checklist sheet.
// Without a configured checklist range the progress column of the document
// sheet is used as is.
func (s *Source) checklistProgress(ctx context.Context) (map[string]int, bool, error) {
	if s.checklistRange == "" {
		return nil, false, nil
	}

	rows, err := s.readRange(ctx, s.checklistRange)
	if err != nil {
		return nil, false, err
	}

	return progress.ByDocument(checklistItems(rows)), true, nil
}

// checklistItems reads inspection rows. Rows without a document reference
// are ignored and unknown severities read as NORMAL.
func checklistItems(rows []sheetRow) []domain.ChecklistItem {
	items := make([]domain.ChecklistItem, 0, len(rows))
	for _, row := range rows {
		get := func(column string) string {
			return strings.TrimSpace(row.values[column])
		}
		ref := get(checklistColumnDocument)
		if ref == "" {
			continue
		}
		severity, _ := domain.ParseRiskLevel(get(ingest.ColumnManualRisk))
		items = append(items, domain.ChecklistItem{
			DocumentRef: ref,
			Sector:      get(ingest.ColumnSector),
			TaskText:    get(checklistColumnTask),
			Done:        parseDone(get(checklistColumnDone)),
			Severity:    severity,
			Notes:       get(ingest.ColumnNotes),
		})
	}
	return items
}

// WriteStatus writes state and days remaining into the document sheet's
// status columns. The values are display-only.
func (s *Source) WriteStatus(ctx context.Context, entries []domain.StatusMirrorEntry) error {
	table, err := s.readTable(ctx, s.documentsRange)
	if err != nil {
		return err
	}

	stateCol, okState := table.columns[ingest.ColumnState]
	daysCol, okDays := table.columns[ingest.ColumnDays]
	if !okState && !okDays {
		return ErrStatusColumnsMissing
	}

	byID := make(map[string]domain.StatusMirrorEntry, len(entries))
	for _, e := range entries {
		byID[e.DocumentID] = e
	}

	sheetName := sheetPrefix(s.documentsRange)
	data := make([]*sheetsapi.ValueRange, 0, len(table.rows)*2)
	for _, row := range table.rows {
		record, err := ingest.NormalizeRow(row.values, ingest.RowOptions{})
		if err != nil {
			continue
		}
		entry, ok := byID[record.ID]
		if !ok {
			continue
		}

		if okState {
			data = append(data, &sheetsapi.ValueRange{
				Range:  cellRef(sheetName, table.firstColumn+stateCol, row.line),
				Values: [][]any{{entry.State.String()}},
			})
		}
		if okDays {
			data = append(data, &sheetsapi.ValueRange{
				Range:  cellRef(sheetName, table.firstColumn+daysCol, row.line),
				Values: [][]any{{mirrorDays(entry)}},
			})
		}
	}

	if len(data) == 0 {
		return nil
	}

	start := time.Now()
	_, err = s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write status mirror: %w", err)
	}

	slog.DebugContext(ctx, "mirrored status to sheet",
		slog.Int("cell_count", len(data)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func mirrorDays(entry domain.StatusMirrorEntry) any {
	if entry.State.IsInert() {
		return ""
	}
	return entry.DaysRemaining
}

type sheetRow struct {
	line   int
	values map[string]string
}

type sheetTable struct {
	columns     map[string]int
	firstColumn int
	rows        []sheetRow
}

func (s *Source) readRange(ctx context.Context, readRange string) ([]sheetRow, error) {
	table, err := s.readTable(ctx, readRange)
	if err != nil {
		return nil, err
	}
	return table.rows, nil
}

func (s *Source) readTable(ctx context.Context, readRange string) (*sheetTable, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}
	return parseTable(resp.Values, readRange), nil
}

// parseTable treats the first row as the header and keys every following
// row by canonical column name. Sheet line numbers are 1-based.
func parseTable(values [][]any, readRange string) *sheetTable {
	firstColumn, firstLine := rangeOrigin(readRange)
	table := &sheetTable{
		columns:     make(map[string]int),
		firstColumn: firstColumn,
		rows:        make([]sheetRow, 0),
	}
	if len(values) == 0 {
		return table
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		name := canonicalColumn(cellString(cell))
		header[i] = name
		if _, dup := table.columns[name]; !dup && name != "" {
			table.columns[name] = i
		}
	}

	for i, raw := range values[1:] {
		row := make(map[string]string, len(header))
		blank := true
		for j, cell := range raw {
			if j >= len(header) || header[j] == "" {
				continue
			}
			v := cellString(cell)
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			row[header[j]] = v
		}
		if blank {
			continue
		}
		table.rows = append(table.rows, sheetRow{
			line:   firstLine + 1 + i,
			values: row,
		})
	}

	return table
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
