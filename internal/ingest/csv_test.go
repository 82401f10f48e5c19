package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestReadCSV(t *testing.T) {
	today := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

	input := strings.Join([]string{
		"Unidade;Setor;Documento;CNPJ;Vencimento;Risco",
		"Clínica Central;Recepção;Alvará;11.111.111/0001-11;15/03/2025;Alta",
		"Clínica Central;UTI;AVCB;;;",
		";;Sem unidade;;;",
		"Clínica Norte;Raio-X;Licença CNEN;;amanhã;",
		"",
		"Clínica Central;Recepção;Alvará;;20/03/2025;",
	}, "\n")

	result, err := ReadCSV(strings.NewReader(input), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}
	if len(result.Rejected) != 3 {
		t.Fatalf("Rejected = %d, want 3: %v", len(result.Rejected), result.Rejected)
	}

	first := result.Records[0]
	if first.ID != "clinica-central--alvara" {
		t.Errorf("first ID = %q", first.ID)
	}
	if first.DueDate == nil || first.DueDate.Day() != 15 {
		t.Errorf("first DueDate = %v", first.DueDate)
	}

	second := result.Records[1]
	wantDue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if second.DueDate == nil || !second.DueDate.Equal(wantDue) {
		t.Errorf("blank due date = %v, want today %v", second.DueDate, wantDue)
	}
	if second.ProgressPercent != 0 {
		t.Errorf("ProgressPercent = %d, want 0", second.ProgressPercent)
	}

	wantLines := []int{4, 5, 7}
	for i, rejected := range result.Rejected {
		if rejected.Line != wantLines[i] {
			t.Errorf("rejected[%d].Line = %d, want %d (%v)", i, rejected.Line, wantLines[i], rejected)
		}
	}
}

func TestReadCSVCommaDelimited(t *testing.T) {
	input := "facility,sector,document_type,due_date\nA,S,B,2025-01-31\n"

	result, err := ReadCSV(strings.NewReader(input), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Records = %d, want 1", len(result.Records))
	}
	if result.Records[0].DueDate.Month() != time.January {
		t.Errorf("DueDate = %v", result.Records[0].DueDate)
	}
}

func TestReadCSVDerivesIDAndRequiresSector(t *testing.T) {
	input := strings.Join([]string{
		"id;unidade;setor;documento;vencimento",
		"my-custom;Clinica A;;Alvara;15/03/2025",
		"my-custom;Clinica A;UTI;Alvara;15/03/2025",
		"clinica-a--alvara;Clinica A;UTI;Alvara;15/03/2025",
		";Clinica A;UTI;Alvara;16/03/2025",
	}, "\n")

	result, err := ReadCSV(strings.NewReader(input), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].ID != "clinica-a--alvara" {
		t.Fatalf("Records = %+v, want only clinica-a--alvara", result.Records)
	}

	want := []struct {
		line  int
		field string
	}{
		{2, ColumnSector},
		{3, ColumnID},
		{5, ColumnID},
	}
	if len(result.Rejected) != len(want) {
		t.Fatalf("Rejected = %v, want %d rows", result.Rejected, len(want))
	}
	for i, w := range want {
		if got := result.Rejected[i]; got.Line != w.line || got.Field != w.field {
			t.Errorf("rejected[%d] = line %d field %q, want line %d field %q", i, got.Line, got.Field, w.line, w.field)
		}
	}
}

func TestReadCSVEmpty(t *testing.T) {
	result, err := ReadCSV(strings.NewReader(""), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 0 || len(result.Rejected) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
