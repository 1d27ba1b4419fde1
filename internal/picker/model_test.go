package picker

import (
	"context"
	"sync"
	"testing"

	"laundry_backend/internal/addressflow"
	"laundry_backend/internal/geocode"
	"laundry_backend/internal/resolver"
	"laundry_backend/internal/search"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu       sync.Mutex
	queries  []string
	selected []string
	record   *resolver.AddressComponents
}

func (f *fakeSession) OnQueryChange(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, text)
}

func (f *fakeSession) OnPredictionSelected(_ context.Context, p geocode.Prediction) (*resolver.AddressComponents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = append(f.selected, p.PlaceID)
	return f.record.Clone(), nil
}

func yayaCentre() *resolver.AddressComponents {
	return &resolver.AddressComponents{
		Building:    "Yaya Centre",
		Estate:      "Kilimani",
		Road:        "Argwings Kodhek Road",
		Area:        "Nairobi",
		County:      "Nairobi County",
		FullAddress: "Yaya Centre, Argwings Kodhek Rd, Nairobi, Kenya",
		Lat:         -1.2921,
		Lng:         36.7872,
		PlaceID:     "yaya",
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func newTestModel(session *fakeSession) *Model {
	return New(context.Background(), session, addressflow.New(nil, ""), nil)
}

func TestTypingForwardsQueryToSession(t *testing.T) {
	session := &fakeSession{}
	m := newTestModel(session)

	send(m, runes("Y"))
	send(m, runes("a"))

	assert.Equal(t, []string{"Y", "Ya"}, session.queries)
}

func TestPickerCompletesFlow(t *testing.T) {
	session := &fakeSession{record: yayaCentre()}
	m := newTestModel(session)

	send(m, ResultsMsg{Result: search.Result{Query: "Yaya", Predictions: []geocode.Prediction{
		{PlaceID: "yaya", PrimaryText: "Yaya Centre", SecondaryText: "Argwings Kodhek Rd"},
	}}})
	send(m, key(tea.KeyTab))

	cmd := send(m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	send(m, cmd())
	assert.Equal(t, []string{"yaya"}, session.selected)
	require.Equal(t, addressflow.StateMapSelect, m.flow.State())

	send(m, key(tea.KeyEnter))
	require.Equal(t, addressflow.StatePlaceTypeSelect, m.flow.State())

	send(m, key(tea.KeyDown))
	send(m, key(tea.KeyEnter))
	require.Equal(t, addressflow.StateDetailEntry, m.flow.State())
	assert.Equal(t, "Yaya Centre", m.fields[fieldBuilding].Value())

	send(m, runes("3"))
	send(m, key(tea.KeyTab))
	send(m, runes("3B"))
	send(m, key(tea.KeyEnter))

	saved := m.Saved()
	require.NotNil(t, saved)
	assert.Equal(t, resolver.PlaceTypeApartment, saved.PlaceType)
	assert.Equal(t, "Yaya Centre", saved.BuildingName)
	assert.Equal(t, "3", saved.FloorNumber)
	assert.Equal(t, "3B", saved.DoorNumber)
	assert.Equal(t, "Kilimani", saved.Estate)
}

func TestPickerBlocksSaveWithoutFloorAndDoor(t *testing.T) {
	session := &fakeSession{record: yayaCentre()}
	m := newTestModel(session)

	send(m, resolvedMsg{record: yayaCentre()})
	send(m, key(tea.KeyEnter))
	send(m, key(tea.KeyEnter))
	require.Equal(t, addressflow.StateDetailEntry, m.flow.State())

	send(m, key(tea.KeyEnter))

	assert.Nil(t, m.Saved())
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "floorNumber")
	assert.Contains(t, m.status, "doorNumber")
	assert.Equal(t, addressflow.StateDetailEntry, m.flow.State())
}

func TestPickerUnknownAddress(t *testing.T) {
	m := newTestModel(&fakeSession{})

	send(m, resolvedMsg{})

	assert.True(t, m.failed)
	assert.Nil(t, m.flow.Draft())
	assert.Equal(t, addressflow.StateMapSelect, m.flow.State())
}

func TestEscapeStepsBack(t *testing.T) {
	m := newTestModel(&fakeSession{})

	send(m, resolvedMsg{record: yayaCentre()})
	send(m, key(tea.KeyEnter))
	send(m, key(tea.KeyEnter))
	require.Equal(t, addressflow.StateDetailEntry, m.flow.State())

	send(m, key(tea.KeyEsc))
	assert.Equal(t, addressflow.StatePlaceTypeSelect, m.flow.State())
	assert.Empty(t, m.flow.PlaceType())

	send(m, key(tea.KeyEsc))
	assert.Equal(t, addressflow.StateMapSelect, m.flow.State())
}

func TestEmptyResultsClearPredictions(t *testing.T) {
	m := newTestModel(&fakeSession{})

	send(m, ResultsMsg{Result: search.Result{Query: "Two", Predictions: []geocode.Prediction{
		{PlaceID: "two-rivers", PrimaryText: "Two Rivers Mall"},
	}}})
	require.Len(t, m.predictions.Items(), 1)

	send(m, ResultsMsg{Result: search.Result{Query: "T", Predictions: []geocode.Prediction{}}})
	assert.Empty(t, m.predictions.Items())

	send(m, key(tea.KeyTab))
	assert.Nil(t, send(m, key(tea.KeyEnter)))
}
