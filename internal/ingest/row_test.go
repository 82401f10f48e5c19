package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

func TestCanonicalHeader(t *testing.T) {
	tests := map[string]string{
		"Vencimento":       ColumnDueDate,
		"Data Vencimento":  ColumnDueDate,
		"Unidade":          ColumnFacility,
		"Observações":      ColumnNotes,
		"CNPJ":             ColumnTaxID,
		"\ufeffid":         ColumnID,
		"Concluído":        ColumnCompleted,
		"Something Else":   "something_else",
		"progress_percent": ColumnProgress,
	}

	for header, want := range tests {
		if got := CanonicalHeader(header); got != want {
			t.Errorf("CanonicalHeader(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestNormalizeRow(t *testing.T) {
	row := map[string]string{
		ColumnFacility:     "Clínica Central",
		ColumnSector:       "Farmácia",
		ColumnDocumentType: "Licença Sanitária",
		ColumnTaxID:        "12.345.678/0001-90",
		ColumnDueDate:      "10/04/2025",
		ColumnReceivedDate: "2024-04-10",
		ColumnManualRisk:   "Alta",
		ColumnProgress:     "50%",
		ColumnCompleted:    "não",
	}

	got, err := NormalizeRow(row, RowOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "clinica-central--licenca-sanitaria" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DueDate = %v", got.DueDate)
	}
	if got.ReceivedDate == nil || got.ReceivedDate.Year() != 2024 {
		t.Errorf("ReceivedDate = %v", got.ReceivedDate)
	}
	if got.ManualRisk != domain.RiskHigh {
		t.Errorf("ManualRisk = %v, want HIGH", got.ManualRisk)
	}
	if got.ProgressPercent != 50 {
		t.Errorf("ProgressPercent = %d, want 50", got.ProgressPercent)
	}
	if got.Completed {
		t.Error("Completed = true, want false")
	}
}

func TestNormalizeRowIDColumn(t *testing.T) {
	got, err := NormalizeRow(map[string]string{
		ColumnID:           "a--b",
		ColumnFacility:     "A",
		ColumnSector:       "S",
		ColumnDocumentType: "B",
	}, RowOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a--b" {
		t.Errorf("ID = %q, want a--b", got.ID)
	}
	if got.ManualRisk != domain.RiskNormal {
		t.Errorf("ManualRisk = %v, want NORMAL", got.ManualRisk)
	}
}

func TestNormalizeRowRejects(t *testing.T) {
	tests := []struct {
		name      string
		row       map[string]string
		opts      RowOptions
		wantField string
	}{
		{
			name:      "missing facility",
			row:       map[string]string{ColumnDocumentType: "Alvará"},
			wantField: ColumnFacility,
		},
		{
			name:      "missing document type",
			row:       map[string]string{ColumnFacility: "Clínica"},
			wantField: ColumnDocumentType,
		},
		{
			name:      "missing sector",
			row:       map[string]string{ColumnFacility: "Clínica", ColumnDocumentType: "Alvará"},
			wantField: ColumnSector,
		},
		{
			name:      "id column disagrees with derived id",
			row:       map[string]string{ColumnID: "my-custom", ColumnFacility: "Clinica A", ColumnSector: "UTI", ColumnDocumentType: "Alvara"},
			wantField: ColumnID,
		},
		{
			name:      "facility without letters or digits",
			row:       map[string]string{ColumnFacility: "!!!", ColumnSector: "UTI", ColumnDocumentType: "Alvara"},
			wantField: ColumnID,
		},
		{
			name:      "unknown risk",
			row:       map[string]string{ColumnFacility: "A", ColumnSector: "S", ColumnDocumentType: "B", ColumnManualRisk: "extreme"},
			wantField: ColumnManualRisk,
		},
		{
			name:      "strict bad due date",
			row:       map[string]string{ColumnFacility: "A", ColumnSector: "S", ColumnDocumentType: "B", ColumnDueDate: "soon"},
			opts:      RowOptions{StrictDates: true},
			wantField: ColumnDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRow(tt.row, tt.opts)
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("error = %v, want *RowError", err)
			}
			if rowErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", rowErr.Field, tt.wantField)
			}
			if !errors.Is(err, domain.ErrInvalidDocument) {
				t.Errorf("error does not wrap ErrInvalidDocument")
			}
		})
	}
}

func TestNormalizeRowLenientDates(t *testing.T) {
	got, err := NormalizeRow(map[string]string{
		ColumnFacility:     "A",
		ColumnSector:       "S",
		ColumnDocumentType: "B",
		ColumnDueDate:      "soon",
	}, RowOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", got.DueDate)
	}
}

func TestNormalizeRowDefaultDueDate(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := NormalizeRow(map[string]string{
		ColumnFacility:     "A",
		ColumnSector:       "S",
		ColumnDocumentType: "B",
	}, RowOptions{DefaultDueDate: &today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(today) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, today)
	}
}

func TestParseProgress(t *testing.T) {
	tests := map[string]int{
		"":     0,
		"0":    0,
		"33":   33,
		"66,5": 66,
		"99.9": 99,
		"100%": 100,
		"150":  100,
		"-3":   0,
		"abc":  0,
	}
	for raw, want := range tests {
		if got := parseProgress(raw); got != want {
			t.Errorf("parseProgress(%q) = %d, want %d", raw, got, want)
		}
	}
}
