package resolver

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"laundry_backend/internal/gazetteer"
)

// MinNameLength is the shortest accepted estate name, in runes.
const MinNameLength = 4

var (
	shortCodePattern  = regexp.MustCompile(`(?i)[0-9a-z]{4}\+[0-9a-z]{2,3}`)
	coordinatePattern = regexp.MustCompile(`^\s*[-+]?\d+(?:\.\d+)?(?:\s*,\s*|\s+)[-+]?\d+(?:\.\d+)?\s*$`)
	numberOnlyPattern = regexp.MustCompile(`^\s*\d+\s*$`)
)

// LooksLikeShortCode matches provider-generated location codes such as
// "GCCM+2V" anywhere in s.
func LooksLikeShortCode(s string) bool {
	return shortCodePattern.MatchString(s)
}

// LooksLikeCoordinates matches a bare "lat,lng" or "lat lng" pair.
func LooksLikeCoordinates(s string) bool {
	return coordinatePattern.MatchString(s)
}

// LooksLikeNumber matches tokens made only of digits.
func LooksLikeNumber(s string) bool {
	return numberOnlyPattern.MatchString(s)
}

// IsTooShort reports whether the trimmed s has fewer than MinNameLength runes.
func IsTooShort(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) < MinNameLength
}

// looksGenerated groups the checks that apply to every name in the record.
func looksGenerated(s string) bool {
	return LooksLikeShortCode(s) || LooksLikeCoordinates(s) || LooksLikeNumber(s)
}

// NameValidator applies the name predicates that need reference data.
type NameValidator struct {
	store *gazetteer.Store
}

// NewNameValidator creates a validator reading the store's current data on
// every call, so reloads take effect immediately.
func NewNameValidator(store *gazetteer.Store) *NameValidator {
	return &NameValidator{store: store}
}

// IsAdministrativeName reports whether s is a city/region/country name,
// either exactly or followed only by qualifiers such as "County".
func (v *NameValidator) IsAdministrativeName(s string) bool {
	return isAdministrative(v.store.Current(), s)
}

// IsValidEstateName rejects short codes, coordinates, bare numbers, names
// shorter than MinNameLength and administrative names.
func (v *NameValidator) IsValidEstateName(s string) bool {
	return isValidEstateName(v.store.Current(), s)
}

func isValidEstateName(g *gazetteer.Gazetteer, s string) bool {
	trimmed := strings.TrimSpace(s)
	return !looksGenerated(trimmed) &&
		!IsTooShort(trimmed) &&
		!isAdministrative(g, trimmed)
}

func isAdministrative(g *gazetteer.Gazetteer, s string) bool {
	normalized := gazetteer.Normalize(s)
	if normalized == "" {
		return false
	}

	for _, name := range g.Administrative() {
		if normalized == name {
			return true
		}
		rest, ok := strings.CutPrefix(normalized, name+" ")
		if ok && onlySuffixes(g, rest) {
			return true
		}
	}
	return false
}

func onlySuffixes(g *gazetteer.Gazetteer, words string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return false
	}
	for _, w := range fields {
		if !g.IsAdministrativeSuffix(w) {
			return false
		}
	}
	return true
}
