package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"laundry_backend/internal/geocode"
)

// PlaceType classifies the kind of location the user is at.
type PlaceType string

const (
	PlaceTypeHouse     PlaceType = "house"
	PlaceTypeApartment PlaceType = "apartment"
	PlaceTypeOffice    PlaceType = "office"
	PlaceTypeOther     PlaceType = "other"
)

// ParsePlaceType accepts the four known place types, case-insensitively.
func ParsePlaceType(s string) (PlaceType, error) {
	switch pt := PlaceType(strings.ToLower(strings.TrimSpace(s))); pt {
	case PlaceTypeHouse, PlaceTypeApartment, PlaceTypeOffice, PlaceTypeOther:
		return pt, nil
	default:
		return "", fmt.Errorf("unknown place type %q", s)
	}
}

func (p *PlaceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = ""
		return nil
	}
	parsed, err := ParsePlaceType(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Label is the user's name for a saved address.
type Label string

const (
	LabelHome  Label = "home"
	LabelWork  Label = "work"
	LabelOther Label = "other"
)

// ParseLabel accepts the three known labels, case-insensitively.
func ParseLabel(s string) (Label, error) {
	switch l := Label(strings.ToLower(strings.TrimSpace(s))); l {
	case LabelHome, LabelWork, LabelOther:
		return l, nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*l = ""
		return nil
	}
	parsed, err := ParseLabel(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// AddressComponents is the resolved address record. The resolver fills the
// location fields; the address flow fills the user-supplied ones.
type AddressComponents struct {
	Building    string  `json:"building,omitempty"`
	Estate      string  `json:"estate,omitempty"`
	Road        string  `json:"road,omitempty"`
	Area        string  `json:"area,omitempty"`
	County      string  `json:"county,omitempty"`
	FullAddress string  `json:"fullAddress"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PlaceID     string  `json:"placeId,omitempty"`

	PlaceType      PlaceType `json:"placeType,omitempty"`
	BuildingName   string    `json:"buildingName,omitempty"`
	FloorNumber    string    `json:"floorNumber,omitempty"`
	DoorNumber     string    `json:"doorNumber,omitempty"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
	Label          Label     `json:"label,omitempty"`
	ContactPhone   string    `json:"contactPhone,omitempty"`
}

// Clone returns a copy the caller may modify freely.
func (a *AddressComponents) Clone() *AddressComponents {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Assemble builds the draft record from the candidates and the classifier
// outputs. It returns nil when there are no candidates.
func Assemble(candidates []geocode.RawCandidate, estate, building string) *AddressComponents {
	if len(candidates) == 0 {
		return nil
	}
	top := candidates[0]

	area := GetComponent(candidates, TagLocality)
	if area == "" {
		area = GetComponent(candidates, TagAdminLevel2)
	}

	fullAddress := strings.TrimSpace(top.FormattedAddress)
	if fullAddress == "" {
		fullAddress = fallbackFullAddress(candidates)
	}

	return &AddressComponents{
		Building:    building,
		Estate:      estate,
		Road:        GetComponent(candidates, TagRoute),
		Area:        area,
		County:      GetComponent(candidates, TagAdminLevel1),
		FullAddress: fullAddress,
		Lat:         top.Location.Lat,
		Lng:         top.Location.Lng,
		PlaceID:     top.PlaceID,
	}
}

// fallbackFullAddress keeps FullAddress populated when the top candidate has
// no formatted address: the first formatted address further down, or the top
// candidate's component names joined.
func fallbackFullAddress(candidates []geocode.RawCandidate) string {
	for _, c := range candidates[1:] {
		if addr := strings.TrimSpace(c.FormattedAddress); addr != "" {
			return addr
		}
	}

	names := make([]string, 0, len(candidates[0].Components))
	for _, component := range candidates[0].Components {
		if name := strings.TrimSpace(component.LongName); name != "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%.6f, %.6f", candidates[0].Location.Lat, candidates[0].Location.Lng)
}
