// Package addressflow implements the guided confirmation of a resolved
// address: MapSelect, PlaceTypeSelect, DetailEntry and the terminal Saved
// state. Transitions are user-driven only.
package addressflow

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"laundry_backend/internal/resolver"
	"laundry_backend/platform/phone"
	"laundry_backend/platform/sanitize"
	"laundry_backend/platform/validator"
)

// State is a step of the flow.
type State int

const (
	StateMapSelect State = iota
	StatePlaceTypeSelect
	StateDetailEntry
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateMapSelect:
		return "map_select"
	case StatePlaceTypeSelect:
		return "place_type_select"
	case StateDetailEntry:
		return "detail_entry"
	case StateSaved:
		return "saved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrFlowFinished is returned by every action after Save succeeded.
	ErrFlowFinished = errors.New("address flow already saved")
	// ErrNoDraft means the location step was confirmed without an address.
	ErrNoDraft = errors.New("no address selected")
	// ErrAtStart is returned by Back in the first step.
	ErrAtStart = errors.New("already at the first step")
)

// TransitionError reports an action that is not allowed in the current state.
type TransitionError struct {
	Action string
	State  State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s is not allowed in %s", e.Action, e.State)
}

// ValidationError lists the detail fields that block Save.
type ValidationError struct {
	Fields []validator.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "missing or invalid fields: " + strings.Join(names, ", ")
}

// Details are the values captured in DetailEntry.
type Details struct {
	BuildingName   string         `json:"buildingName"`
	FloorNumber    string         `json:"floorNumber" validate:"notblank"`
	DoorNumber     string         `json:"doorNumber" validate:"notblank"`
	AdditionalInfo string         `json:"additionalInfo"`
	Label          resolver.Label `json:"label" validate:"omitempty,oneof=home work other"`
	ContactPhone   string         `json:"contactPhone"`
}

// Flow is one confirmation session. It owns its draft exclusively; a new
// draft always replaces the previous one as a whole.
type Flow struct {
	mu sync.Mutex

	state     State
	draft     *resolver.AddressComponents
	placeType resolver.PlaceType
	details   Details

	// buildingEdited is set once the user typed a building name, which then
	// takes precedence over the resolver's suggestion.
	buildingEdited bool

	validate    *validator.Validator
	phoneRegion string
}

// New starts a flow in MapSelect.
func New(v *validator.Validator, phoneRegion string) *Flow {
	if v == nil {
		v = validator.New()
	}
	if phoneRegion == "" {
		phoneRegion = phone.DefaultRegion
	}
	return &Flow{state: StateMapSelect, validate: v, phoneRegion: phoneRegion}
}

// State returns the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current draft, or nil.
func (f *Flow) Draft() *resolver.AddressComponents {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// PlaceType returns the selected place type.
func (f *Flow) PlaceType() resolver.PlaceType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placeType
}

// Details returns the detail values, with the building name pre-filled from
// the draft until the user edits it.
func (f *Flow) Details() Details {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.details
}

// SetDraft replaces the draft after the map settled. A nil record clears it,
// leaving manual entry as the only path forward.
func (f *Flow) SetDraft(record *resolver.AddressComponents) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require("set draft", StateMapSelect); err != nil {
		return err
	}

	f.draft = record.Clone()
	if !f.buildingEdited {
		f.details.BuildingName = ""
		if f.draft != nil {
			f.details.BuildingName = f.draft.Building
		}
	}
	return nil
}

// SetManualAddress replaces the draft with a user-typed address. It is the
// fallback when resolution returned nothing.
func (f *Flow) SetManualAddress(fullAddress string, lat, lng float64) error {
	fullAddress = sanitize.Line(fullAddress)
	if strings.TrimSpace(fullAddress) == "" {
		return &ValidationError{Fields: []validator.FieldError{{Field: "fullAddress", Rule: "notblank"}}}
	}
	return f.SetDraft(&resolver.AddressComponents{FullAddress: fullAddress, Lat: lat, Lng: lng})
}

// ConfirmLocation moves from MapSelect to PlaceTypeSelect.
func (f *Flow) ConfirmLocation() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require("confirm location", StateMapSelect); err != nil {
		return err
	}
	if f.draft == nil || strings.TrimSpace(f.draft.FullAddress) == "" {
		return ErrNoDraft
	}
	f.state = StatePlaceTypeSelect
	return nil
}

// SelectPlaceType records the place type and moves to DetailEntry.
func (f *Flow) SelectPlaceType(pt resolver.PlaceType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require("select place type", StatePlaceTypeSelect); err != nil {
		return err
	}
	parsed, err := resolver.ParsePlaceType(string(pt))
	if err != nil {
		return &ValidationError{Fields: []validator.FieldError{{Field: "placeType", Rule: "oneof"}}}
	}
	f.placeType = parsed
	f.state = StateDetailEntry
	return nil
}

// SetDetails replaces the detail values. Free text is sanitized; nothing is
// validated until Save.
func (f *Flow) SetDetails(d Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require("set details", StateDetailEntry); err != nil {
		return err
	}

	d.BuildingName = sanitize.Line(d.BuildingName)
	d.FloorNumber = sanitize.Line(d.FloorNumber)
	d.DoorNumber = sanitize.Line(d.DoorNumber)
	d.AdditionalInfo = sanitize.Text(d.AdditionalInfo)
	d.ContactPhone = strings.TrimSpace(d.ContactPhone)

	suggested := ""
	if f.draft != nil {
		suggested = f.draft.Building
	}
	if d.BuildingName != suggested {
		f.buildingEdited = true
	}
	f.details = d
	return nil
}

// CanSave reports whether Save would pass the floor/door gate.
func (f *Flow) CanSave() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state == StateDetailEntry &&
		strings.TrimSpace(f.details.FloorNumber) != "" &&
		strings.TrimSpace(f.details.DoorNumber) != ""
}

// Save validates the details, merges them into the draft and finishes the
// flow. Missing floor or door numbers never default silently.
func (f *Flow) Save() (*resolver.AddressComponents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require("save", StateDetailEntry); err != nil {
		return nil, err
	}

	var fields []validator.FieldError
	if err := f.validate.Struct(f.details); err != nil {
		if fields = validator.Fields(err); fields == nil {
			return nil, err
		}
	}

	contactPhone, err := phone.ParseE164(f.details.ContactPhone, f.phoneRegion)
	if err != nil {
		fields = append(fields, validator.FieldError{Field: "contactPhone", Rule: "e164"})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	record := f.draft.Clone()
	record.PlaceType = f.placeType
	record.BuildingName = strings.TrimSpace(f.details.BuildingName)
	record.FloorNumber = strings.TrimSpace(f.details.FloorNumber)
	record.DoorNumber = strings.TrimSpace(f.details.DoorNumber)
	record.AdditionalInfo = strings.TrimSpace(f.details.AdditionalInfo)
	record.Label = f.details.Label
	record.ContactPhone = contactPhone

	f.state = StateSaved
	return record, nil
}

// Back returns to the previous step. Leaving DetailEntry clears the place
// type; leaving PlaceTypeSelect clears the building name so it is suggested
// again from the next draft. Other entered values are kept.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateSaved:
		return ErrFlowFinished
	case StateMapSelect:
		return ErrAtStart
	case StateDetailEntry:
		f.placeType = ""
		f.state = StatePlaceTypeSelect
	case StatePlaceTypeSelect:
		f.details.BuildingName = ""
		f.buildingEdited = false
		f.state = StateMapSelect
	}
	return nil
}

func (f *Flow) require(action string, want State) error {
	if f.state == StateSaved {
		return ErrFlowFinished
	}
	if f.state != want {
		return &TransitionError{Action: action, State: f.state}
	}
	return nil
}
