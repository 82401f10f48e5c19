package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// Canonical column names of a document row.
const (
	ColumnID           = "id"
	ColumnFacility     = "facility"
	ColumnSector       = "sector"
	ColumnDocumentType = "document_type"
	ColumnTaxID        = "tax_id"
	ColumnReceivedDate = "received_date"
	ColumnDueDate      = "due_date"
	ColumnManualRisk   = "manual_risk"
	ColumnProgress     = "progress_percent"
	ColumnCompleted    = "completed"
	ColumnNotes        = "notes"
	ColumnState        = "state"
	ColumnDays         = "days_remaining"
)

var headerAliases = map[string]string{
	"id":               ColumnID,
	"facility":         ColumnFacility,
	"unidade":          ColumnFacility,
	"empresa":          ColumnFacility,
	"estabelecimento":  ColumnFacility,
	"sector":           ColumnSector,
	"setor":            ColumnSector,
	"document_type":    ColumnDocumentType,
	"document":         ColumnDocumentType,
	"documento":        ColumnDocumentType,
	"tipo_documento":   ColumnDocumentType,
	"tax_id":           ColumnTaxID,
	"cnpj":             ColumnTaxID,
	"received_date":    ColumnReceivedDate,
	"recebimento":      ColumnReceivedDate,
	"data_recebimento": ColumnReceivedDate,
	"due_date":         ColumnDueDate,
	"vencimento":       ColumnDueDate,
	"data_vencimento":  ColumnDueDate,
	"manual_risk":      ColumnManualRisk,
	"risk":             ColumnManualRisk,
	"risco":            ColumnManualRisk,
	"gravidade":        ColumnManualRisk,
	"progress_percent": ColumnProgress,
	"progress":         ColumnProgress,
	"progresso":        ColumnProgress,
	"completed":        ColumnCompleted,
	"concluido":        ColumnCompleted,
	"notes":            ColumnNotes,
	"obs":              ColumnNotes,
	"observacoes":      ColumnNotes,
	"state":            ColumnState,
	"status":           ColumnState,
	"days_remaining":   ColumnDays,
	"dias":             ColumnDays,
	"dias_restantes":   ColumnDays,
}

// CanonicalHeader maps a spreadsheet header onto its canonical column name.
// Unknown headers are returned normalised but otherwise unchanged.
func CanonicalHeader(header string) string {
	key := normalizeHeader(header)
	if canonical, ok := headerAliases[key]; ok {
		return canonical
	}
	return key
}

func normalizeHeader(header string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, header)
	if err != nil {
		folded = header
	}
	folded = strings.TrimPrefix(folded, "\ufeff")

	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if underscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			underscore = false
			b.WriteRune(r)
			continue
		}
		underscore = true
	}
	return b.String()
}

// RowError describes a row rejected at the ingestion boundary.
type RowError struct {
	Line   int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *RowError) Unwrap() error {
	return domain.ErrInvalidDocument
}

type RowOptions struct {
	// StrictDates rejects rows whose dates are present but unparseable.
	// Without it such dates become nil and the record classifies as invalid.
	StrictDates bool
	// DefaultDueDate is used when the due date column is blank.
	DefaultDueDate *time.Time
}

// NormalizeRow turns a loosely typed row keyed by canonical column names into
// a DocumentRecord. The ID is always derived from facility and document type;
// an id column is accepted only when it agrees.
func NormalizeRow(row map[string]string, opts RowOptions) (domain.DocumentRecord, error) {
	get := func(column string) string {
		return strings.TrimSpace(row[column])
	}

	facility := get(ColumnFacility)
	if facility == "" {
		return domain.DocumentRecord{}, &RowError{Field: ColumnFacility, Reason: "required"}
	}
	documentType := get(ColumnDocumentType)
	if documentType == "" {
		return domain.DocumentRecord{}, &RowError{Field: ColumnDocumentType, Reason: "required"}
	}
	sector := get(ColumnSector)
	if sector == "" {
		return domain.DocumentRecord{}, &RowError{Field: ColumnSector, Reason: "required"}
	}

	id := DocumentID(facility, documentType)
	if err := CheckDocumentID(id); err != nil {
		return domain.DocumentRecord{}, &RowError{Field: ColumnID, Reason: err.Error()}
	}
	if explicit := get(ColumnID); explicit != "" && explicit != id {
		return domain.DocumentRecord{}, &RowError{
			Field:  ColumnID,
			Reason: fmt.Sprintf("%q does not match facility and document type (%q)", explicit, id),
		}
	}

	record := domain.DocumentRecord{
		ID:           id,
		Facility:     facility,
		Sector:       sector,
		DocumentType: documentType,
		TaxID:        get(ColumnTaxID),
		Notes:        get(ColumnNotes),
		ManualRisk:   domain.RiskNormal,
	}

	dueDate, err := parseDateColumn(get(ColumnDueDate), ColumnDueDate, opts.StrictDates)
	if err != nil {
		return domain.DocumentRecord{}, err
	}
	if dueDate == nil && get(ColumnDueDate) == "" && opts.DefaultDueDate != nil {
		d := *opts.DefaultDueDate
		dueDate = &d
	}
	record.DueDate = dueDate

	receivedDate, err := parseDateColumn(get(ColumnReceivedDate), ColumnReceivedDate, opts.StrictDates)
	if err != nil {
		return domain.DocumentRecord{}, err
	}
	record.ReceivedDate = receivedDate

	if raw := get(ColumnManualRisk); raw != "" {
		risk, ok := domain.ParseRiskLevel(raw)
		if !ok {
			return domain.DocumentRecord{}, &RowError{Field: ColumnManualRisk, Reason: fmt.Sprintf("unknown risk level %q", raw)}
		}
		record.ManualRisk = risk
	}

	record.ProgressPercent = parseProgress(get(ColumnProgress))
	record.Completed = parseBool(get(ColumnCompleted))

	return record, nil
}

func parseDateColumn(raw, column string, strict bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		if strict {
			return nil, &RowError{Field: column, Reason: err.Error()}
		}
		return nil, nil
	}
	return &parsed, nil
}

func parseProgress(raw string) int {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	}
	// Truncate so a fractional value never reports full progress.
	return int(value)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "sim", "s", "x":
		return true
	}
	return false
}
