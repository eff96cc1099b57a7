package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeStatus folds a document status for comparison: trimmed,
// lowercased, accents removed. "Validé", "valide" and "VALIDÉE" all
// normalize to a comparable form.
func NormalizeStatus(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// IsValidatedStatus reports whether a status means "Validé", accepting the
// gender/spelling variants found in stored documents.
func IsValidatedStatus(s string) bool {
	switch NormalizeStatus(s) {
	case "valide", "validee":
		return true
	}
	return false
}

// IsPendingStatus reports whether a status means "En attente".
func IsPendingStatus(s string) bool {
	return NormalizeStatus(s) == "en attente"
}

// excludedStatuses lists normalized statuses excluded from balance
// accumulation: cancelled, deleted, draft, refused, expired.
var excludedStatuses = map[string]struct{}{
	"annule":    {},
	"supprime":  {},
	"brouillon": {},
	"refuse":    {},
	"expire":    {},
}

// CountsTowardBalance reports whether a document or payment in the given
// status participates in a contact's cumulative balance.
func CountsTowardBalance(s string) bool {
	_, excluded := excludedStatuses[NormalizeStatus(s)]
	return !excluded
}
