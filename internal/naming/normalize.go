package naming

import (
	"regexp"
	"strings"
)

// diacritics maps the diacritic characters the platform folds when it
// builds entity IDs: the German umlauts plus the accented letters that
// appear in the shipped type-label languages (de/es/fr). The
// replacement happens after lowercasing, so the uppercase variants are
// covered by their lowercase entries.
var diacritics = strings.NewReplacer(
	"ä", "a",
	"ö", "o",
	"ü", "u",
	"ß", "ss",
	"á", "a",
	"à", "a",
	"â", "a",
	"é", "e",
	"è", "e",
	"ê", "e",
	"ë", "e",
	"í", "i",
	"î", "i",
	"ó", "o",
	"ô", "o",
	"ú", "u",
	"û", "u",
	"ç", "c",
	"ñ", "n",
)

// nonToken matches every maximal run of characters that cannot appear
// in an entity ID token.
var nonToken = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize converts a display name into the token form used in entity
// IDs: lowercase, diacritics folded to their base Latin letter, every
// run of other characters collapsed to a single underscore, and
// leading/trailing underscores removed.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
// An empty input yields an empty output.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	normalized := diacritics.Replace(strings.ToLower(name))
	normalized = nonToken.ReplaceAllString(normalized, "_")
	return strings.Trim(normalized, "_")
}
