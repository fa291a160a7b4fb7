// Package slug derives stable item identifiers from photo filenames.
//
// The derivation is a contract shared by the scanner and every metadata
// backend: the same filename must always yield the same identifier,
// since the identifier is the sole join key during reconciliation.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Derive returns the stable identifier for a photo filename: the
// extension is dropped, the stem lowercased, runs of non-alphanumeric
// characters collapsed to a single hyphen, and leading/trailing hyphens
// trimmed.
func Derive(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	s := nonAlnum.ReplaceAllString(strings.ToLower(stem), "-")
	return strings.Trim(s, "-")
}

// Title builds a human-readable default title from a filename by
// dropping the extension and replacing underscores and hyphens with
// spaces. Stored metadata overrides it during reconciliation.
func Title(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(stem)
}
