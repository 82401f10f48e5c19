package ingest

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentID derives the stable identifier of a document from its facility
// and document type: accents removed, lower case, runs of other characters
// collapsed to a single dash.
func DocumentID(facility, documentType string) string {
	return slug(facility) + "--" + slug(documentType)
}

var errEmptySlug = errors.New("facility and document type must contain letters or digits")

// CheckDocumentID rejects IDs whose facility or document type part folded to
// nothing.
func CheckDocumentID(id string) error {
	if strings.HasPrefix(id, "--") || strings.HasSuffix(id, "--") {
		return errEmptySlug
	}
	return nil
}

func slug(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	return b.String()
}
