package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type ImportResult struct {
	Records  []domain.DocumentRecord
	Rejected []*RowError
}

// ReadCSV parses a bulk import file. The first row is the header; the
// delimiter is detected from it (";" or ","). Blank due dates default to
// today, and rows with unparseable values are rejected with their line.
func ReadCSV(r io.Reader, today time.Time) (*ImportResult, error) {
	buffered := bufio.NewReader(r)

	sample, err := buffered.Peek(buffered.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = detectDelimiter(string(sample))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CanonicalHeader(h)
	}

	defaultDue := domain.CivilDate(today, nil)
	opts := RowOptions{
		StrictDates:    true,
		DefaultDueDate: &defaultDue,
	}

	result := &ImportResult{
		Records:  make([]domain.DocumentRecord, 0),
		Rejected: make([]*RowError, 0),
	}
	seen := make(map[string]int)

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Rejected = append(result.Rejected, &RowError{
					Line:   parseErr.Line,
					Field:  "row",
					Reason: parseErr.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if isBlank(fields) {
			continue
		}

		row := make(map[string]string, len(columns))
		for i, value := range fields {
			if i < len(columns) {
				row[columns[i]] = value
			}
		}

		record, err := NormalizeRow(row, opts)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Line = line
				result.Rejected = append(result.Rejected, rowErr)
				continue
			}
			return nil, err
		}

		if prev, dup := seen[record.ID]; dup {
			result.Rejected = append(result.Rejected, &RowError{
				Line:   line,
				Field:  ColumnID,
				Reason: fmt.Sprintf("duplicate of line %d", prev),
			})
			continue
		}
		seen[record.ID] = line

		result.Records = append(result.Records, record)
	}

	return result, nil
}

func detectDelimiter(sample string) rune {
	if idx := strings.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}
	if strings.Count(sample, ";") > strings.Count(sample, ",") {
		return ';'
	}
	return ','
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
