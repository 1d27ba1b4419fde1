package resolver

import (
	"strings"
	"unicode/utf8"

	"laundry_backend/internal/geocode"
)

// lowerRankPOIScan is how many candidates after the top one are searched for
// a point of interest.
const lowerRankPOIScan = 2

// ResolveBuildingName picks a human-meaningful building name, preferring an
// explicit point of interest over premise numbers. It returns "" when the
// caller has to ask for manual entry.
func ResolveBuildingName(candidates []geocode.RawCandidate) string {
	if len(candidates) == 0 {
		return ""
	}

	if isPOI(candidates[0]) {
		if name := firstComponentName(candidates[0]); IsValidBuildingName(name) {
			return name
		}
	}

	if premise := GetComponent(candidates, TagPremise); IsValidBuildingName(premise) {
		return premise
	}

	if subpremise := GetComponent(candidates, TagSubpremise); IsValidBuildingName(subpremise) {
		return subpremise
	}

	for i := 1; i < len(candidates) && i <= lowerRankPOIScan; i++ {
		if !isPOI(candidates[i]) {
			continue
		}
		if name := firstComponentName(candidates[i]); IsValidBuildingName(name) {
			return name
		}
	}

	return ""
}

func isPOI(c geocode.RawCandidate) bool {
	return c.HasType(TagEstablishment) || c.HasType(TagPointOfInterest)
}

func firstComponentName(c geocode.RawCandidate) string {
	if len(c.Components) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Components[0].LongName)
}

// IsValidBuildingName requires more than three runes and rejects generated
// tokens, which must never reach the record.
func IsValidBuildingName(name string) bool {
	name = strings.TrimSpace(name)
	return utf8.RuneCountInString(name) > 3 && !looksGenerated(name)
}
