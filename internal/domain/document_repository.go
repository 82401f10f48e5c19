package domain

import "context"

//go:generate mockgen -source=document_repository.go -destination=document_repository_mock.go -package=domain

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *DocumentRecord) error
	GetDocument(ctx context.Context, id string) (*DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]DocumentRecord, error)
	UpdateDocument(ctx context.Context, doc *DocumentRecord) error
	// DeleteDocument removes the document together with its checklist items.
	DeleteDocument(ctx context.Context, id string) error
	UpdateProgress(ctx context.Context, id string, progressPercent int) error
}

type ChecklistRepository interface {
	CreateItem(ctx context.Context, item *ChecklistItem) error
	GetItem(ctx context.Context, documentRef, id string) (*ChecklistItem, error)
	ListItems(ctx context.Context, documentRef string) ([]ChecklistItem, error)
	UpdateItem(ctx context.Context, item *ChecklistItem) error
	DeleteItem(ctx context.Context, documentRef, id string) error
}
