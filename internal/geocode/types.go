package geocode

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Component is one typed fragment of a candidate address.
type Component struct {
	LongName  string   `json:"longName"`
	ShortName string   `json:"shortName,omitempty"`
	Types     []string `json:"types"`
}

// HasType reports whether the component carries tag.
func (c Component) HasType(tag string) bool {
	return containsTag(c.Types, tag)
}

// RawCandidate is one reverse-geocode result, in provider relevance order.
// Candidates are never persisted.
type RawCandidate struct {
	Rank             int         `json:"rank"`
	PlaceID          string      `json:"placeId,omitempty"`
	FormattedAddress string      `json:"formattedAddress"`
	Types            []string    `json:"types"`
	Components       []Component `json:"components"`
	Location         Location    `json:"location"`
}

// HasType reports whether the result itself is tagged with tag.
func (c RawCandidate) HasType(tag string) bool {
	return containsTag(c.Types, tag)
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	PlaceID       string `json:"placeId"`
	PrimaryText   string `json:"primaryText"`
	SecondaryText string `json:"secondaryText"`
}

// Place is the resolved location of a prediction.
type Place struct {
	PlaceID          string   `json:"placeId"`
	Location         Location `json:"location"`
	FormattedAddress string   `json:"formattedAddress"`
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Wire payloads of the provider. Only the fields the pipeline reads are mapped.

type apiGeocodeResponse struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	Results      []apiGeocodeResult `json:"results"`
}

type apiGeocodeResult struct {
	PlaceID           string                `json:"place_id"`
	FormattedAddress  string                `json:"formatted_address"`
	Types             []string              `json:"types"`
	AddressComponents []apiAddressComponent `json:"address_components"`
	Geometry          apiGeometry           `json:"geometry"`
}

type apiAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type apiGeometry struct {
	Location apiLatLng `json:"location"`
}

type apiLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type apiAutocompleteResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Predictions  []apiPrediction `json:"predictions"`
}

type apiPrediction struct {
	PlaceID              string                  `json:"place_id"`
	Description          string                  `json:"description"`
	StructuredFormatting apiStructuredFormatting `json:"structured_formatting"`
}

type apiStructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type apiPlaceDetailsResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Result       apiPlaceResult `json:"result"`
}

type apiPlaceResult struct {
	PlaceID          string      `json:"place_id"`
	FormattedAddress string      `json:"formatted_address"`
	Geometry         apiGeometry `json:"geometry"`
}

func (r apiGeocodeResult) toCandidate(rank int) RawCandidate {
	components := make([]Component, 0, len(r.AddressComponents))
	for _, c := range r.AddressComponents {
		components = append(components, Component{
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     c.Types,
		})
	}

	return RawCandidate{
		Rank:             rank,
		PlaceID:          r.PlaceID,
		FormattedAddress: r.FormattedAddress,
		Types:            r.Types,
		Components:       components,
		Location:         Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}
}

func (p apiPrediction) toPrediction() Prediction {
	primary := p.StructuredFormatting.MainText
	if primary == "" {
		primary = p.Description
	}
	return Prediction{
		PlaceID:       p.PlaceID,
		PrimaryText:   primary,
		SecondaryText: p.StructuredFormatting.SecondaryText,
	}
}
