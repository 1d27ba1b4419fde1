package resolver

import (
	"testing"

	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
)

func TestEstateFromSublocalityLevel1(t *testing.T) {
	c := NewClassifier(defaultStore())
	candidates := []geocode.RawCandidate{
		candidate(0, "Argwings Kodhek Rd, Nairobi", []string{TagRoute},
			component("Argwings Kodhek Road", TagRoute),
			component("Kilimani", TagSublocalityLevel1, TagSublocality),
			component("Nairobi", TagLocality)),
	}

	estate, source := c.Classify(candidates)
	if estate != "Kilimani" {
		t.Fatalf("expected Kilimani, got %q", estate)
	}
	if source != EstateFromGazetteer {
		t.Fatalf("expected gazetteer source, got %s", source)
	}
}

func TestEstateShortCodeOnlyYieldsNothing(t *testing.T) {
	c := NewClassifier(defaultStore())
	candidates := []geocode.RawCandidate{
		candidate(0, "GCCM+2V, Nairobi", []string{"plus_code"},
			component("GCCM+2V", TagSublocalityLevel1, TagSublocality),
			component("Nairobi", TagLocality)),
	}

	if got := c.Estate(candidates); got != "" {
		t.Fatalf("expected no estate, got %q", got)
	}
}

func TestEstateSkipsAdministrativeNames(t *testing.T) {
	c := NewClassifier(defaultStore())
	candidates := []geocode.RawCandidate{
		candidate(0, "Nairobi", nil,
			component("Nairobi", TagSublocalityLevel1),
			component("Nairobi County", TagNeighborhood)),
		candidate(1, "Kileleshwa, Nairobi", nil,
			component("Kileleshwa", TagSublocalityLevel2)),
	}

	if got := c.Estate(candidates); got != "Kileleshwa" {
		t.Fatalf("expected Kileleshwa, got %q", got)
	}
}

func TestEstateIndicatorKeyword(t *testing.T) {
	c := NewClassifier(defaultStore())
	candidates := []geocode.RawCandidate{
		candidate(0, "Jacaranda Gardens, Nairobi", nil,
			component("Jacaranda Gardens", TagNeighborhood)),
	}

	estate, source := c.Classify(candidates)
	if estate != "Jacaranda Gardens" || source != EstateFromIndicator {
		t.Fatalf("expected indicator match, got %q (%s)", estate, source)
	}
}

func TestEstatePriorityOrder(t *testing.T) {
	c := NewClassifier(defaultStore())
	candidates := []geocode.RawCandidate{
		candidate(0, "x", nil,
			component("Lavington", TagSublocality),
			component("Kileleshwa", TagNeighborhood)),
	}

	if got := c.Estate(candidates); got != "Kileleshwa" {
		t.Fatalf("expected neighborhood to outrank plain sublocality, got %q", got)
	}
}

func TestEstateLastResortFallback(t *testing.T) {
	c := NewClassifier(defaultStore())

	valid := []geocode.RawCandidate{
		candidate(0, "x", nil, component("Mwimuto", TagSublocalityLevel3)),
	}
	estate, source := c.Classify(valid)
	if estate != "Mwimuto" || source != EstateFromFallback {
		t.Fatalf("expected fallback to sublocality_level_3, got %q (%s)", estate, source)
	}

	invalid := []geocode.RawCandidate{
		candidate(0, "x", nil, component("Kenya", TagSublocalityLevel3)),
	}
	if estate, source := c.Classify(invalid); estate != "" || source != EstateNone {
		t.Fatalf("expected administrative fallback to be rejected, got %q (%s)", estate, source)
	}
}

func TestEstateMatchesWholePhrasesOnly(t *testing.T) {
	c := NewClassifier(defaultStore())

	// "Karengata" contains "karen" as a substring but not as a word.
	candidates := []geocode.RawCandidate{
		candidate(0, "x", nil, component("Karengata", TagNeighborhood)),
	}
	if _, source := c.Classify(candidates); source == EstateFromGazetteer {
		t.Fatal("did not expect a partial-word gazetteer match")
	}

	candidates = []geocode.RawCandidate{
		candidate(0, "x", nil, component("Karen Area", TagNeighborhood)),
	}
	if estate, source := c.Classify(candidates); estate != "Karen Area" || source != EstateFromGazetteer {
		t.Fatalf("expected phrase match, got %q (%s)", estate, source)
	}
}

func TestEstateNeverAdministrative(t *testing.T) {
	g := gazetteer.Default()
	c := NewClassifier(gazetteer.NewStaticStore(g))
	validator := NewNameValidator(gazetteer.NewStaticStore(g))

	for _, name := range g.Administrative() {
		for _, tag := range estatePriority {
			candidates := []geocode.RawCandidate{
				candidate(0, name, nil, component(name, tag)),
				candidate(1, name+" County", nil, component(name+" County", tag)),
			}
			estate := c.Estate(candidates)
			if estate != "" && validator.IsAdministrativeName(estate) {
				t.Fatalf("administrative name %q leaked as estate via %s", estate, tag)
			}
		}
	}
}

func TestEstateUsesReloadedData(t *testing.T) {
	g, err := gazetteer.New(gazetteer.Data{
		Indicators:     []string{"estate"},
		Estates:        []string{"Mwimuto"},
		Administrative: []string{"Nairobi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewClassifier(gazetteer.NewStaticStore(g))

	candidates := []geocode.RawCandidate{
		candidate(0, "x", nil, component("Mwimuto", TagNeighborhood)),
	}
	if estate, source := c.Classify(candidates); estate != "Mwimuto" || source != EstateFromGazetteer {
		t.Fatalf("expected custom gazetteer match, got %q (%s)", estate, source)
	}
}
