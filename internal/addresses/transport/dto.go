package transport

import (
	"time"

	"laundry_backend/internal/resolver"

	"github.com/google/uuid"
)

// LocationRequest is the resolved draft the client confirmed on the map.
type LocationRequest struct {
	Building    string  `json:"building" validate:"max=200"`
	Estate      string  `json:"estate" validate:"max=200"`
	Road        string  `json:"road" validate:"max=200"`
	Area        string  `json:"area" validate:"max=200"`
	County      string  `json:"county" validate:"max=200"`
	FullAddress string  `json:"fullAddress" validate:"notblank,max=500"`
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
	PlaceID     string  `json:"placeId" validate:"max=300"`
}

// SaveAddressRequest is the body of POST /addresses.
type SaveAddressRequest struct {
	Location       LocationRequest `json:"location" validate:"required"`
	PlaceType      string          `json:"placeType" validate:"required,oneof=house apartment office other"`
	BuildingName   string          `json:"buildingName" validate:"max=200"`
	FloorNumber    string          `json:"floorNumber" validate:"notblank,max=20"`
	DoorNumber     string          `json:"doorNumber" validate:"notblank,max=20"`
	AdditionalInfo string          `json:"additionalInfo" validate:"max=500"`
	Label          string          `json:"label" validate:"omitempty,oneof=home work other"`
	ContactPhone   string          `json:"contactPhone" validate:"max=32"`
}

// Draft converts the location part to a resolver record.
func (l LocationRequest) Draft() *resolver.AddressComponents {
	return &resolver.AddressComponents{
		Building:    l.Building,
		Estate:      l.Estate,
		Road:        l.Road,
		Area:        l.Area,
		County:      l.County,
		FullAddress: l.FullAddress,
		Lat:         l.Lat,
		Lng:         l.Lng,
		PlaceID:     l.PlaceID,
	}
}

// AddressResponse is a saved address.
type AddressResponse struct {
	ID uuid.UUID `json:"id"`
	resolver.AddressComponents
	CreatedAt time.Time `json:"createdAt"`
}

// AddressListResponse wraps the user's address book.
type AddressListResponse struct {
	Items []AddressResponse `json:"items"`
}
