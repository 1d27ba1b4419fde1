package resolver

import (
	"strings"

	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
)

// estatePriority is the order neighborhood-level tags are consulted in.
// Providers populate these levels inconsistently; sublocality_level_3 is also
// the last-resort fallback.
var estatePriority = []string{
	TagSublocalityLevel1,
	TagNeighborhood,
	TagSublocalityLevel2,
	TagSublocality,
	TagSublocalityLevel3,
}

// EstateSource records why a value was accepted as the estate.
type EstateSource string

const (
	EstateFromIndicator EstateSource = "indicator"
	EstateFromGazetteer EstateSource = "gazetteer"
	EstateFromFallback  EstateSource = "fallback"
	EstateNone          EstateSource = "none"
)

// Classifier picks the estate/neighborhood name from a candidate set.
type Classifier struct {
	store *gazetteer.Store
}

// NewClassifier creates a classifier over the store's current gazetteer.
func NewClassifier(store *gazetteer.Store) *Classifier {
	return &Classifier{store: store}
}

// Estate returns the best neighborhood-level name, or "" when none qualifies.
func (c *Classifier) Estate(candidates []geocode.RawCandidate) string {
	estate, _ := c.Classify(candidates)
	return estate
}

// Classify is Estate plus the reason the value was chosen.
func (c *Classifier) Classify(candidates []geocode.RawCandidate) (string, EstateSource) {
	g := c.store.Current()

	for _, tag := range estatePriority {
		value := GetComponent(candidates, tag)
		if value == "" || !isValidEstateName(g, value) {
			continue
		}
		if hasIndicator(g, value) {
			return value, EstateFromIndicator
		}
		if matchesGazetteer(g, value) {
			return value, EstateFromGazetteer
		}
	}

	// The last resort skips the keyword/gazetteer test only; the record
	// invariants still apply.
	if value := GetComponent(candidates, TagSublocalityLevel3); value != "" && isValidEstateName(g, value) {
		return value, EstateFromFallback
	}
	return "", EstateNone
}

// hasIndicator reports whether any word of s is an indicator keyword.
func hasIndicator(g *gazetteer.Gazetteer, s string) bool {
	words := strings.Fields(gazetteer.Normalize(s))
	for _, keyword := range g.Indicators() {
		for _, w := range words {
			if w == keyword {
				return true
			}
		}
	}
	return false
}

// matchesGazetteer reports whether s equals a known estate or contains one as
// a whole phrase ("Kilimani Area" contains "kilimani").
func matchesGazetteer(g *gazetteer.Gazetteer, s string) bool {
	padded := " " + gazetteer.Normalize(s) + " "
	for _, estate := range g.Estates() {
		if strings.Contains(padded, " "+estate+" ") {
			return true
		}
	}
	return false
}
