package store

import (
	"time"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type documentModel struct {
	ID              string     `gorm:"primaryKey;size:255"`
	Facility        string     `gorm:"index;size:255;not null"`
	Sector          string     `gorm:"index;size:128;not null"`
	DocumentType    string     `gorm:"size:255;not null"`
	TaxID           string     `gorm:"size:32"`
	ReceivedDate    *time.Time `gorm:"type:date"`
	DueDate         *time.Time `gorm:"type:date;index"`
	ManualRisk      string     `gorm:"size:16;not null;default:NORMAL"`
	ProgressPercent int        `gorm:"not null;default:0"`
	Completed       bool       `gorm:"not null;default:false"`
	Notes           string     `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ChecklistItems []checklistItemModel `gorm:"foreignKey:DocumentRef;constraint:OnDelete:CASCADE"`
}

func (documentModel) TableName() string {
	return "documents"
}

type checklistItemModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	DocumentRef string `gorm:"index;size:255;not null"`
	Sector      string `gorm:"size:255"`
	TaskText    string `gorm:"type:text;not null"`
	Done        bool   `gorm:"not null;default:false"`
	Severity    string `gorm:"size:16;not null;default:NORMAL"`
	Notes       string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (checklistItemModel) TableName() string {
	return "checklist_items"
}

func toDocumentModel(doc *domain.DocumentRecord) *documentModel {
	return &documentModel{
		ID:              doc.ID,
		Facility:        doc.Facility,
		Sector:          doc.Sector,
		DocumentType:    doc.DocumentType,
		TaxID:           doc.TaxID,
		ReceivedDate:    utcDate(doc.ReceivedDate),
		DueDate:         utcDate(doc.DueDate),
		ManualRisk:      doc.ManualRisk.String(),
		ProgressPercent: doc.ProgressPercent,
		Completed:       doc.Completed,
		Notes:           doc.Notes,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func (m *documentModel) toDomain() domain.DocumentRecord {
	risk, ok := domain.ParseRiskLevel(m.ManualRisk)
	if !ok {
		risk = domain.RiskNormal
	}
	return domain.DocumentRecord{
		ID:              m.ID,
		Facility:        m.Facility,
		Sector:          m.Sector,
		DocumentType:    m.DocumentType,
		TaxID:           m.TaxID,
		ReceivedDate:    utcDate(m.ReceivedDate),
		DueDate:         utcDate(m.DueDate),
		ManualRisk:      risk,
		ProgressPercent: m.ProgressPercent,
		Completed:       m.Completed,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toChecklistItemModel(item *domain.ChecklistItem) *checklistItemModel {
	return &checklistItemModel{
		ID:          item.ID,
		DocumentRef: item.DocumentRef,
		Sector:      item.Sector,
		TaskText:    item.TaskText,
		Done:        item.Done,
		Severity:    item.Severity.String(),
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
	}
}

func (m *checklistItemModel) toDomain() domain.ChecklistItem {
	return domain.ChecklistItem{
		ID:          m.ID,
		DocumentRef: m.DocumentRef,
		Sector:      m.Sector,
		TaskText:    m.TaskText,
		Done:        m.Done,
		Severity:    domain.RiskLevel(m.Severity),
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

// utcDate keeps date columns on the civil-date convention regardless of the
// session timezone the driver reports them in.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, mo, d := t.Date()
	c := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &c
}
