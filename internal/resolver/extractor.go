// Package resolver turns ranked reverse-geocode candidates into a structured
// address record. Everything here is pure: candidates in, record out.
package resolver

import (
	"strings"

	"laundry_backend/internal/geocode"
)

// Component and result tags used by the classifiers.
const (
	TagEstablishment     = "establishment"
	TagPointOfInterest   = "point_of_interest"
	TagPremise           = "premise"
	TagSubpremise        = "subpremise"
	TagRoute             = "route"
	TagNeighborhood      = "neighborhood"
	TagSublocality       = "sublocality"
	TagSublocalityLevel1 = "sublocality_level_1"
	TagSublocalityLevel2 = "sublocality_level_2"
	TagSublocalityLevel3 = "sublocality_level_3"
	TagLocality          = "locality"
	TagAdminLevel1       = "administrative_area_level_1"
	TagAdminLevel2       = "administrative_area_level_2"
)

// GetComponent returns the first component tagged with tag, looking at the
// top-ranked candidate first and falling back through the rest in rank order.
// It returns "" when no candidate carries the tag.
func GetComponent(candidates []geocode.RawCandidate, tag string) string {
	for _, candidate := range candidates {
		for _, component := range candidate.Components {
			if !component.HasType(tag) {
				continue
			}
			if name := strings.TrimSpace(component.LongName); name != "" {
				return name
			}
		}
	}
	return ""
}
