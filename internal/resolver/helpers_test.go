package resolver

import (
	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
)

func component(name string, types ...string) geocode.Component {
	return geocode.Component{LongName: name, ShortName: name, Types: types}
}

func candidate(rank int, address string, types []string, components ...geocode.Component) geocode.RawCandidate {
	return geocode.RawCandidate{
		Rank:             rank,
		PlaceID:          "place-" + address,
		FormattedAddress: address,
		Types:            types,
		Components:       components,
		Location:         geocode.Location{Lat: -1.2921, Lng: 36.7856},
	}
}

func defaultStore() *gazetteer.Store {
	return gazetteer.NewStaticStore(gazetteer.Default())
}
