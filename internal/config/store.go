package config

import (
	"os"
	"strings"
)

const (
	storeBackendEnv          = "STORE_BACKEND"
	databaseURLEnv           = "DATABASE_URL"
	sheetsSpreadsheetIDEnv   = "SHEETS_SPREADSHEET_ID"
	sheetsDocumentsRangeEnv  = "SHEETS_DOCUMENTS_RANGE"
	sheetsChecklistRangeEnv  = "SHEETS_CHECKLIST_RANGE"
	sheetsCredentialsFileEnv = "SHEETS_CREDENTIALS_FILE"

	defaultSheetsDocumentsRange = "Documents"
)

type StoreBackend string

const (
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendSheets   StoreBackend = "sheets"
)

type StoreConfig struct {
	Backend     StoreBackend
	DatabaseURL string

	SpreadsheetID   string
	DocumentsRange  string
	ChecklistRange  string
	CredentialsFile string
}

func LoadStoreConfig() *StoreConfig {
	backend := StoreBackend(strings.ToLower(os.Getenv(storeBackendEnv)))
	if backend == "" {
		backend = StoreBackendPostgres
	}

	return &StoreConfig{
		Backend:     backend,
		DatabaseURL: os.Getenv(databaseURLEnv),

		SpreadsheetID:   os.Getenv(sheetsSpreadsheetIDEnv),
		DocumentsRange:  stringEnv(sheetsDocumentsRangeEnv, defaultSheetsDocumentsRange),
		ChecklistRange:  os.Getenv(sheetsChecklistRangeEnv),
		CredentialsFile: os.Getenv(sheetsCredentialsFileEnv),
	}
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return ErrDatabaseURLMissing
		}
	case StoreBackendSheets:
		if c.SpreadsheetID == "" {
			return ErrSpreadsheetIDMissing
		}
	default:
		return ErrUnknownStoreBackend
	}
	return nil
}
