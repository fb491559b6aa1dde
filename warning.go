package startlist

import (
	"fmt"
	"strings"
)

// WarningCode identifies the kind of a Warning.
type WarningCode int

// NoRecordsMessage explains an empty result to the person who supplied the
// document.
const NoRecordsMessage = "no participants found: check that the document is a text start list and not a scanned image"

const (
	// WarnNoRecords means the document produced no valid participant.
	WarnNoRecords WarningCode = iota + 1
	// WarnPageUnreadable means a page's text could not be extracted.
	WarnPageUnreadable
	// WarnUndecodableText means a page decoded mostly to unprintable text,
	// usually because its fonts carry no Unicode mapping.
	WarnUndecodableText
)

// String returns the string representation of the code.
func (c WarningCode) String() string {
	switch c {
	case WarnNoRecords:
		return "no-records"
	case WarnPageUnreadable:
		return "page-unreadable"
	case WarnUndecodableText:
		return "undecodable-text"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found during conversion.
type Warning struct {
	Code    WarningCode
	Page    int // 1-based page number, 0 when the warning concerns the document
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single display string, one per line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

// HasWarning reports whether warnings contain the code.
func HasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
