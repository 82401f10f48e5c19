package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/testutil"
)

func setupStore(t *testing.T) (*Store, func()) {
	t.Helper()
	ctx := context.Background()

	dsn, cleanup := testutil.SetupPostgresContainer(ctx, t)

	s, err := Open(ctx, dsn)
	if err != nil {
		cleanup()
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		cleanup()
		t.Fatalf("failed to migrate: %v", err)
	}

	return s, func() {
		if err := s.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
		cleanup()
	}
}

func civil(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleDocument(id string) *domain.DocumentRecord {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	return &domain.DocumentRecord{
		ID:           id,
		Facility:     "Clínica Central",
		Sector:       "UTI",
		DocumentType: "Alvará",
		TaxID:        "12.345.678/0001-90",
		ReceivedDate: civil(2024, 4, 1),
		DueDate:      civil(2025, 4, 10),
		ManualRisk:   domain.RiskHigh,
		Notes:        "renewal requested",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStoreDocumentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := sampleDocument("clinica-central--alvara")
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	if err := s.CreateDocument(ctx, doc); !errors.Is(err, domain.ErrDocumentExists) {
		t.Errorf("duplicate CreateDocument error = %v, want ErrDocumentExists", err)
	}

	got, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.ManualRisk != domain.RiskHigh || got.Sector != "UTI" || got.Notes != "renewal requested" {
		t.Errorf("unexpected document %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*doc.DueDate) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, doc.DueDate)
	}

	got.Completed = true
	got.ManualRisk = domain.RiskNormal
	got.DueDate = civil(2025, 5, 1)
	if err := s.UpdateDocument(ctx, got); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}

	updated, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !updated.Completed || updated.ManualRisk != domain.RiskNormal || !updated.DueDate.Equal(*civil(2025, 5, 1)) {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := s.UpdateProgress(ctx, doc.ID, 50); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	listed, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(listed) != 1 || listed[0].ProgressPercent != 50 {
		t.Errorf("ListDocuments() = %+v", listed)
	}

	if _, err := s.GetDocument(ctx, "missing"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("GetDocument(missing) error = %v, want ErrDocumentNotFound", err)
	}
	if err := s.UpdateProgress(ctx, "missing", 10); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("UpdateProgress(missing) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestStoreChecklistAndCascadeDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := sampleDocument("doc--one")
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"item-1", "item-2"} {
		item := &domain.ChecklistItem{
			ID:          id,
			DocumentRef: doc.ID,
			Sector:      "UTI",
			TaskText:    "task " + id,
			Severity:    domain.RiskNormal,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	orphan := &domain.ChecklistItem{ID: "orphan", DocumentRef: "missing", TaskText: "x", CreatedAt: base}
	if err := s.CreateItem(ctx, orphan); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("CreateItem(orphan) error = %v, want ErrDocumentNotFound", err)
	}

	item, err := s.GetItem(ctx, doc.ID, "item-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	item.Done = true
	item.Severity = domain.RiskCritical
	item.Notes = "extintor vencido"
	if err := s.UpdateItem(ctx, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	items, err := s.ListItems(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 || !items[0].Done || items[1].Done {
		t.Errorf("ListItems() = %+v", items)
	}
	if got := items[0]; got.Sector != "UTI" || got.Severity != domain.RiskCritical || got.Notes != "extintor vencido" {
		t.Errorf("inspection fields not persisted: %+v", got)
	}

	if _, err := s.GetItem(ctx, "other-doc", "item-1"); !errors.Is(err, domain.ErrChecklistItemNotFound) {
		t.Errorf("GetItem on wrong document error = %v, want ErrChecklistItemNotFound", err)
	}

	if err := s.DeleteItem(ctx, doc.ID, "item-2"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := s.DeleteItem(ctx, doc.ID, "item-2"); !errors.Is(err, domain.ErrChecklistItemNotFound) {
		t.Errorf("second DeleteItem error = %v, want ErrChecklistItemNotFound", err)
	}

	if err := s.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	items, err = s.ListItems(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("checklist items survived cascade delete: %+v", items)
	}
	if err := s.DeleteDocument(ctx, doc.ID); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("second DeleteDocument error = %v, want ErrDocumentNotFound", err)
	}
}
