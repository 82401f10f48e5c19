package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// Store is the Postgres backed document store. It serves the document and
// checklist repositories and acts as the record source of an evaluation tick.
type Store struct {
	db *gorm.DB
}

var (
	_ domain.DocumentRepository  = (*Store)(nil)
	_ domain.ChecklistRepository = (*Store)(nil)
	_ domain.RecordSource        = (*Store)(nil)
)

func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := New(db)
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the documents and checklist_items tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&documentModel{}, &checklistItemModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateDocument(ctx context.Context, doc *domain.DocumentRecord) error {
	model := toDocumentModel(doc)
	if err := s.db.WithContext(ctx).Omit("ChecklistItems").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentExists, doc.ID)
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	var model documentModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc := model.toDomain()
	return &doc, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	var models []documentModel
	if err := s.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]domain.DocumentRecord, 0, len(models))
	for i := range models {
		docs = append(docs, models[i].toDomain())
	}
	return docs, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc *domain.DocumentRecord) error {
	model := toDocumentModel(doc)
	result := s.db.WithContext(ctx).
		Model(&documentModel{}).
		Where("id = ?", doc.ID).
		Select("Facility", "Sector", "DocumentType", "TaxID", "ReceivedDate", "DueDate",
			"ManualRisk", "Completed", "Notes", "UpdatedAt").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, doc.ID)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_ref = ?", id).Delete(&checklistItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete checklist items: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&documentModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete document: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return nil
	})
}

func (s *Store) UpdateProgress(ctx context.Context, id string, progressPercent int) error {
	result := s.db.WithContext(ctx).
		Model(&documentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"progress_percent": progressPercent,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return nil
}

func (s *Store) CreateItem(ctx context.Context, item *domain.ChecklistItem) error {
	if err := s.db.WithContext(ctx).Create(toChecklistItemModel(item)).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, item.DocumentRef)
		}
		return fmt.Errorf("failed to create checklist item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, documentRef, id string) (*domain.ChecklistItem, error) {
	var model checklistItemModel
	err := s.db.WithContext(ctx).
		Where("document_ref = ? AND id = ?", documentRef, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrChecklistItemNotFound, id)
		}
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}
	item := model.toDomain()
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, documentRef string) ([]domain.ChecklistItem, error) {
	var models []checklistItemModel
	err := s.db.WithContext(ctx).
		Where("document_ref = ?", documentRef).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	items := make([]domain.ChecklistItem, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDomain())
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, item *domain.ChecklistItem) error {
	result := s.db.WithContext(ctx).
		Model(&checklistItemModel{}).
		Where("document_ref = ? AND id = ?", item.DocumentRef, item.ID).
		Updates(map[string]any{
			"sector":    item.Sector,
			"task_text": item.TaskText,
			"done":      item.Done,
			"severity":  item.Severity.String(),
			"notes":     item.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update checklist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrChecklistItemNotFound, item.ID)
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, documentRef, id string) error {
	result := s.db.WithContext(ctx).
		Where("document_ref = ? AND id = ?", documentRef, id).
		Delete(&checklistItemModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete checklist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrChecklistItemNotFound, id)
	}
	return nil
}
