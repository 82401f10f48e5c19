package sheets

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/KasumiMercury/compliance-watch/internal/ingest"
)

const (
	checklistColumnDocument = "document_ref"
	checklistColumnTask     = "task_text"
	checklistColumnDone     = "done"
)

var checklistAliases = map[string]string{
	"document_ref": checklistColumnDocument,
	"document_id":  checklistColumnDocument,
	"documento_id": checklistColumnDocument,
	"task":         checklistColumnTask,
	"task_text":    checklistColumnTask,
	"tarefa":       checklistColumnTask,
	"item":         checklistColumnTask,
	"done":         checklistColumnDone,
	"feito":        checklistColumnDone,
	"conforme":     checklistColumnDone,
	"situacao":     checklistColumnDone,
	"situation":    checklistColumnDone,
}

// canonicalColumn resolves checklist headers first, then document headers.
func canonicalColumn(header string) string {
	name := ingest.CanonicalHeader(header)
	if alias, ok := checklistAliases[name]; ok {
		return alias
	}
	return name
}

// parseDone reads a done flag or an inspection situation such as
// "✅ Conforme" / "❌ NÃO Conforme".
func parseDone(raw string) bool {
	value := strings.TrimFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	switch value {
	case "true", "1", "yes", "y", "sim", "s", "x", "ok", "conforme", "conforming":
		return true
	}
	return false
}

// sheetPrefix returns the sheet name of an A1 range including the trailing
// "!". A range without "!" names a whole sheet.
func sheetPrefix(a1 string) string {
	if idx := strings.LastIndex(a1, "!"); idx >= 0 {
		return a1[:idx+1]
	}
	return a1 + "!"
}

// rangeOrigin returns the zero-based column and one-based row of the top
// left cell of an A1 range. Ranges without a cell reference start at A1.
func rangeOrigin(a1 string) (int, int) {
	idx := strings.LastIndex(a1, "!")
	if idx < 0 {
		return 0, 1
	}
	ref := a1[idx+1:]
	if idx := strings.Index(ref, ":"); idx >= 0 {
		ref = ref[:idx]
	}

	col := 0
	i := 0
	for ; i < len(ref); i++ {
		c := ref[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			break
		}
		col = col*26 + int(c-'A'+1)
	}
	if col == 0 {
		col = 1
	}

	line, err := strconv.Atoi(ref[i:])
	if err != nil || line <= 0 {
		line = 1
	}

	return col - 1, line
}

func columnLetters(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func cellRef(sheetName string, column, line int) string {
	return sheetName + columnLetters(column) + strconv.Itoa(line)
}
