package addressflow

import (
	"errors"
	"testing"

	"laundry_backend/internal/resolver"
	"laundry_backend/platform/validator"
)

func draft() *resolver.AddressComponents {
	return &resolver.AddressComponents{
		Building:    "Yaya Centre",
		Estate:      "Kilimani",
		Road:        "Argwings Kodhek Road",
		Area:        "Nairobi",
		County:      "Nairobi County",
		FullAddress: "Yaya Centre, Argwings Kodhek Rd, Nairobi, Kenya",
		Lat:         -1.2925,
		Lng:         36.7876,
	}
}

func toDetailEntry(t *testing.T) *Flow {
	t.Helper()
	f := New(validator.New(), "KE")
	if err := f.SetDraft(draft()); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if err := f.ConfirmLocation(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := f.SelectPlaceType(resolver.PlaceTypeApartment); err != nil {
		t.Fatalf("place type: %v", err)
	}
	return f
}

func TestSaveBlockedUntilFloorAndDoorPresent(t *testing.T) {
	f := toDetailEntry(t)

	if err := f.SetDetails(Details{BuildingName: "Yaya Centre", FloorNumber: "", DoorNumber: "12", Label: resolver.LabelHome}); err != nil {
		t.Fatalf("set details: %v", err)
	}
	if f.CanSave() {
		t.Fatal("expected Save to be disabled with an empty floor")
	}

	_, err := f.Save()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "floorNumber" {
		t.Fatalf("expected floorNumber to be reported, got %+v", verr.Fields)
	}
	if f.State() != StateDetailEntry {
		t.Fatalf("expected to stay in detail entry, got %s", f.State())
	}

	if err := f.SetDetails(Details{BuildingName: "Yaya Centre", FloorNumber: "3", DoorNumber: "12", Label: resolver.LabelHome}); err != nil {
		t.Fatalf("set details: %v", err)
	}
	if !f.CanSave() {
		t.Fatal("expected Save to be enabled")
	}

	record, err := f.Save()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := *draft()
	want.PlaceType = resolver.PlaceTypeApartment
	want.BuildingName = "Yaya Centre"
	want.FloorNumber = "3"
	want.DoorNumber = "12"
	want.Label = resolver.LabelHome
	if *record != want {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", *record, want)
	}
	if f.State() != StateSaved {
		t.Fatalf("expected saved, got %s", f.State())
	}
}

func TestWhitespaceOnlyFieldsBlockSave(t *testing.T) {
	f := toDetailEntry(t)
	_ = f.SetDetails(Details{FloorNumber: "   ", DoorNumber: "\t"})

	if f.CanSave() {
		t.Fatal("expected whitespace-only values to disable Save")
	}
	_, err := f.Save()
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
}

func TestBuildingNamePrefilledFromDraft(t *testing.T) {
	f := New(nil, "")
	_ = f.SetDraft(draft())

	if got := f.Details().BuildingName; got != "Yaya Centre" {
		t.Fatalf("expected building name suggestion, got %q", got)
	}

	// A new draft replaces the suggestion until the user types their own.
	next := draft()
	next.Building = "Prestige Plaza"
	_ = f.SetDraft(next)
	if got := f.Details().BuildingName; got != "Prestige Plaza" {
		t.Fatalf("expected suggestion to follow the draft, got %q", got)
	}
}

func TestBackNavigationKeepsUnrelatedValues(t *testing.T) {
	f := toDetailEntry(t)
	_ = f.SetDetails(Details{BuildingName: "Block C", FloorNumber: "3", DoorNumber: "12", AdditionalInfo: "Gate B"})

	if err := f.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if f.State() != StatePlaceTypeSelect || f.PlaceType() != "" {
		t.Fatalf("expected place type to be cleared, state %s type %q", f.State(), f.PlaceType())
	}
	if d := f.Details(); d.FloorNumber != "3" || d.BuildingName != "Block C" {
		t.Fatalf("expected details to survive, got %+v", d)
	}

	if err := f.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if f.State() != StateMapSelect {
		t.Fatalf("expected map select, got %s", f.State())
	}
	d := f.Details()
	if d.BuildingName != "" || d.DoorNumber != "12" || d.AdditionalInfo != "Gate B" {
		t.Fatalf("expected only the building name to be cleared, got %+v", d)
	}
	if err := f.Back(); !errors.Is(err, ErrAtStart) {
		t.Fatalf("expected ErrAtStart, got %v", err)
	}
}

func TestActionsOutOfOrderAreRejected(t *testing.T) {
	f := New(nil, "")

	if err := f.ConfirmLocation(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
	var terr *TransitionError
	if err := f.SelectPlaceType(resolver.PlaceTypeHouse); !errors.As(err, &terr) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if _, err := f.Save(); !errors.As(err, &terr) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestFlowFinishedAfterSave(t *testing.T) {
	f := toDetailEntry(t)
	_ = f.SetDetails(Details{FloorNumber: "1", DoorNumber: "A4"})
	if _, err := f.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := f.Save(); !errors.Is(err, ErrFlowFinished) {
		t.Fatalf("expected ErrFlowFinished, got %v", err)
	}
	if err := f.Back(); !errors.Is(err, ErrFlowFinished) {
		t.Fatalf("expected ErrFlowFinished, got %v", err)
	}
	if err := f.SetDraft(draft()); !errors.Is(err, ErrFlowFinished) {
		t.Fatalf("expected ErrFlowFinished, got %v", err)
	}
}

func TestContactPhoneNormalized(t *testing.T) {
	f := toDetailEntry(t)
	_ = f.SetDetails(Details{FloorNumber: "1", DoorNumber: "A4", ContactPhone: "0712 345 678"})

	record, err := f.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if record.ContactPhone != "+254712345678" {
		t.Fatalf("expected E.164 phone, got %q", record.ContactPhone)
	}
}

func TestInvalidContactPhoneBlocksSave(t *testing.T) {
	f := toDetailEntry(t)
	_ = f.SetDetails(Details{FloorNumber: "1", DoorNumber: "A4", ContactPhone: "12"})

	_, err := f.Save()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "contactPhone" {
		t.Fatalf("expected contactPhone validation error, got %v", err)
	}
}

func TestManualAddressFallback(t *testing.T) {
	f := New(nil, "")
	if err := f.SetManualAddress("  ", 0, 0); err == nil {
		t.Fatal("expected blank manual address to be rejected")
	}
	if err := f.SetManualAddress("Hse 14, Mugumo Road, Lavington", -1.28, 36.77); err != nil {
		t.Fatalf("manual address: %v", err)
	}
	if err := f.ConfirmLocation(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
}
