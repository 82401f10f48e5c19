package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/ingest"
	"github.com/KasumiMercury/compliance-watch/internal/service/progress"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

type Option func(*Service)

// WithClock replaces the wall clock used for timestamps and status.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	documents  domain.DocumentRepository
	checklist  domain.ChecklistRepository
	classifier *status.Classifier
	now        func() time.Time
}

func NewService(
	documents domain.DocumentRepository,
	checklist domain.ChecklistRepository,
	classifier *status.Classifier,
	opts ...Option,
) *Service {
	s := &Service{
		documents:  documents,
		checklist:  checklist,
		classifier: classifier,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	doc := domain.DocumentRecord{
		Facility:     strings.TrimSpace(in.Facility),
		Sector:       strings.TrimSpace(in.Sector),
		DocumentType: strings.TrimSpace(in.DocumentType),
		TaxID:        strings.TrimSpace(in.TaxID),
		ReceivedDate: civilPtr(in.ReceivedDate),
		DueDate:      civilPtr(in.DueDate),
		ManualRisk:   in.ManualRisk,
		Completed:    in.Completed,
		Notes:        strings.TrimSpace(in.Notes),
	}
	if doc.ManualRisk == "" {
		doc.ManualRisk = domain.RiskNormal
	}
	if doc.DueDate == nil {
		today := s.Today()
		doc.DueDate = &today
	}

	if err := validate(&doc); err != nil {
		return nil, err
	}

	doc.ID = ingest.DocumentID(doc.Facility, doc.DocumentType)
	if err := ingest.CheckDocumentID(doc.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.documents.CreateDocument(ctx, &doc); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "document created",
		slog.String("document_id", doc.ID),
		slog.String("facility", doc.Facility),
	)

	return s.view(doc), nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*doc), nil
}

// List returns documents matching filter sorted by days remaining, resolved
// documents last.
func (s *Service) List(ctx context.Context, filter Filter) ([]View, error) {
	docs, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(docs))
	for _, doc := range docs {
		v := s.view(doc)
		if !filter.matches(v) {
			continue
		}
		views = append(views, *v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Status, views[j].Status
		if a.State.IsInert() != b.State.IsInert() {
			return !a.State.IsInert()
		}
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}
		return views[i].Document.ID < views[j].Document.ID
	})

	return views, nil
}

func (f Filter) matches(v *View) bool {
	doc := v.Document
	if !f.IncludeCompleted && doc.Completed {
		return false
	}
	if f.Sector != "" && !strings.EqualFold(f.Sector, doc.Sector) {
		return false
	}
	if f.Facility != "" && !strings.EqualFold(f.Facility, doc.Facility) {
		return false
	}
	if f.Risk != "" && f.Risk != doc.ManualRisk {
		return false
	}
	if f.State != "" && f.State != v.Status.State {
		return false
	}
	return true
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*View, error) {
	doc, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Facility != nil {
		doc.Facility = strings.TrimSpace(*in.Facility)
	}
	if in.Sector != nil {
		doc.Sector = strings.TrimSpace(*in.Sector)
	}
	if in.DocumentType != nil {
		doc.DocumentType = strings.TrimSpace(*in.DocumentType)
	}
	if in.TaxID != nil {
		doc.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.ReceivedDate != nil {
		doc.ReceivedDate = civilPtr(in.ReceivedDate)
	}
	if in.DueDate != nil {
		doc.DueDate = civilPtr(in.DueDate)
	}
	if in.ManualRisk != nil {
		doc.ManualRisk = *in.ManualRisk
	}
	if in.Completed != nil {
		doc.Completed = *in.Completed
	}
	if in.Notes != nil {
		doc.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := validate(doc); err != nil {
		return nil, err
	}
	doc.UpdatedAt = s.now().UTC()

	if err := s.documents.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return s.view(*doc), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "document deleted",
		slog.String("document_id", id),
	)
	return nil
}

// Today is the current civil date in the classifier's timezone.
func (s *Service) Today() time.Time {
	return s.classifier.TodayAt(s.now())
}

// ImportCSV parses a bulk import file and stores every accepted row.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	parsed, err := ingest.ReadCSV(r, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}
	return s.Import(ctx, parsed)
}

// Import creates every parsed record. Records whose ID already exists are
// skipped, not overwritten. Records that fail the same checks as Create are
// added to the rejected rows.
func (s *Service) Import(ctx context.Context, parsed *ingest.ImportResult) (*ImportSummary, error) {
	summary := &ImportSummary{
		Created:  make([]string, 0, len(parsed.Records)),
		Skipped:  make([]string, 0),
		Rejected: parsed.Rejected,
	}

	now := s.now().UTC()
	for _, record := range parsed.Records {
		doc := record
		doc.CreatedAt = now
		doc.UpdatedAt = now
		doc.ProgressPercent = 0
		if doc.ManualRisk == "" {
			doc.ManualRisk = domain.RiskNormal
		}

		if rowErr := checkImported(&doc); rowErr != nil {
			summary.Rejected = append(summary.Rejected, rowErr)
			continue
		}

		err := s.documents.CreateDocument(ctx, &doc)
		switch {
		case err == nil:
			summary.Created = append(summary.Created, doc.ID)
		case errors.Is(err, domain.ErrDocumentExists):
			summary.Skipped = append(summary.Skipped, doc.ID)
		default:
			return summary, fmt.Errorf("failed to import document %s: %w", doc.ID, err)
		}
	}

	slog.InfoContext(ctx, "import completed",
		slog.Int("created", len(summary.Created)),
		slog.Int("skipped", len(summary.Skipped)),
		slog.Int("rejected", len(summary.Rejected)),
	)

	return summary, nil
}

func (s *Service) ListItems(ctx context.Context, documentID string) ([]domain.ChecklistItem, error) {
	if _, err := s.documents.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.checklist.ListItems(ctx, documentID)
}

func (s *Service) AddItem(ctx context.Context, documentID string, in ChecklistInput) (*domain.ChecklistItem, error) {
	taskText := strings.TrimSpace(in.TaskText)
	if taskText == "" {
		return nil, fmt.Errorf("%w: task text is required", domain.ErrInvalidDocument)
	}
	severity := in.Severity
	if severity == "" {
		severity = domain.RiskNormal
	}
	if !severity.IsValid() {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidDocument, severity)
	}
	if _, err := s.documents.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	item := &domain.ChecklistItem{
		ID:          uuid.NewString(),
		DocumentRef: documentID,
		Sector:      strings.TrimSpace(in.Sector),
		TaskText:    taskText,
		Done:        in.Done,
		Severity:    severity,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.checklist.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.recomputeProgress(ctx, documentID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, documentID, itemID string, in ChecklistUpdate) (*domain.ChecklistItem, error) {
	item, err := s.checklist.GetItem(ctx, documentID, itemID)
	if err != nil {
		return nil, err
	}

	if in.TaskText != nil {
		text := strings.TrimSpace(*in.TaskText)
		if text == "" {
			return nil, fmt.Errorf("%w: task text is required", domain.ErrInvalidDocument)
		}
		item.TaskText = text
	}
	if in.Severity != nil {
		if !in.Severity.IsValid() {
			return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidDocument, *in.Severity)
		}
		item.Severity = *in.Severity
	}
	if in.Sector != nil {
		item.Sector = strings.TrimSpace(*in.Sector)
	}
	if in.Notes != nil {
		item.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Done != nil {
		item.Done = *in.Done
	}

	if err := s.checklist.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.recomputeProgress(ctx, documentID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, documentID, itemID string) error {
	if err := s.checklist.DeleteItem(ctx, documentID, itemID); err != nil {
		return err
	}
	return s.recomputeProgress(ctx, documentID)
}

func (s *Service) recomputeProgress(ctx context.Context, documentID string) error {
	items, err := s.checklist.ListItems(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list checklist for %s: %w", documentID, err)
	}

	percent := progress.Compute(items)
	if err := s.documents.UpdateProgress(ctx, documentID, percent); err != nil {
		return fmt.Errorf("failed to update progress for %s: %w", documentID, err)
	}

	slog.DebugContext(ctx, "progress recomputed",
		slog.String("document_id", documentID),
		slog.Int("item_count", len(items)),
		slog.Int("progress_percent", percent),
	)
	return nil
}

func (s *Service) view(doc domain.DocumentRecord) *View {
	return &View{
		Document: doc,
		Status:   s.classifier.ClassifyRecord(&doc, s.now()),
	}
}

func validate(doc *domain.DocumentRecord) error {
	var missing []string
	if doc.Facility == "" {
		missing = append(missing, "facility")
	}
	if doc.Sector == "" {
		missing = append(missing, "sector")
	}
	if doc.DocumentType == "" {
		missing = append(missing, "document_type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidDocument, strings.Join(missing, ", "))
	}
	if !doc.ManualRisk.IsValid() {
		return fmt.Errorf("%w: unknown risk level %q", domain.ErrInvalidDocument, doc.ManualRisk)
	}
	return nil
}

// checkImported applies Create's invariants to a parsed record: required
// fields, a known risk and the ID derived from facility and document type.
func checkImported(doc *domain.DocumentRecord) *ingest.RowError {
	if err := validate(doc); err != nil {
		return &ingest.RowError{Field: "row", Reason: strings.TrimPrefix(err.Error(), domain.ErrInvalidDocument.Error()+": ")}
	}
	want := ingest.DocumentID(doc.Facility, doc.DocumentType)
	if err := ingest.CheckDocumentID(want); err != nil {
		return &ingest.RowError{Field: ingest.ColumnID, Reason: err.Error()}
	}
	if doc.ID != want {
		return &ingest.RowError{Field: ingest.ColumnID, Reason: fmt.Sprintf("%q does not match facility and document type (%q)", doc.ID, want)}
	}
	return nil
}

func civilPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	c := domain.CivilDate(*t, nil)
	return &c
}
