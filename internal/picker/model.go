// Package picker is a terminal UI for the address confirmation flow: search
// for a place, pick a place type, enter floor and door, save.
package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundry_backend/internal/addressflow"
	"laundry_backend/internal/geocode"
	"laundry_backend/internal/resolver"
	"laundry_backend/internal/search"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Session is the part of search.Session the picker drives.
type Session interface {
	OnQueryChange(text string)
	OnPredictionSelected(ctx context.Context, prediction geocode.Prediction) (*resolver.AddressComponents, error)
}

// ResultsMsg carries a current search response into the program.
type ResultsMsg struct{ Result search.Result }

// ErrorMsg carries a search failure into the program.
type ErrorMsg struct{ Err error }

type resolvedMsg struct {
	record *resolver.AddressComponents
	err    error
}

type predictionItem struct{ geocode.Prediction }

func (i predictionItem) Title() string       { return i.PrimaryText }
func (i predictionItem) Description() string { return i.SecondaryText }
func (i predictionItem) FilterValue() string { return i.PrimaryText }

var placeTypes = []resolver.PlaceType{
	resolver.PlaceTypeHouse,
	resolver.PlaceTypeApartment,
	resolver.PlaceTypeOffice,
	resolver.PlaceTypeOther,
}

const (
	fieldBuilding = iota
	fieldFloor
	fieldDoor
	fieldInfo
	fieldCount
)

var fieldLabels = [fieldCount]string{"Building", "Floor", "Door", "Instructions"}

// Model is the bubbletea model of the picker.
type Model struct {
	ctx     context.Context
	session Session
	flow    *addressflow.Flow
	styles  *Styles

	query       textinput.Model
	predictions list.Model
	listFocused bool

	placeCursor int

	fields     [fieldCount]textinput.Model
	fieldFocus int

	status   string
	failed   bool
	resolved bool
	saved    *resolver.AddressComponents
}

// New creates a picker over a search session and a fresh flow.
func New(ctx context.Context, session Session, flow *addressflow.Flow, styles *Styles) *Model {
	if styles == nil {
		styles = DefaultStyles()
	}

	query := textinput.New()
	query.Placeholder = "Search for your building or street..."
	query.CharLimit = 120
	query.Width = 50
	query.Focus()

	predictions := list.New(nil, list.NewDefaultDelegate(), 60, 14)
	predictions.Title = "Places"
	predictions.SetShowHelp(false)
	predictions.SetShowStatusBar(false)
	predictions.SetFilteringEnabled(false)

	m := &Model{
		ctx:         ctx,
		session:     session,
		flow:        flow,
		styles:      styles,
		query:       query,
		predictions: predictions,
	}
	for i := range m.fields {
		ti := textinput.New()
		ti.CharLimit = 80
		ti.Width = 40
		m.fields[i] = ti
	}
	return m
}

// Saved returns the saved record once the flow finished, or nil.
func (m *Model) Saved() *resolver.AddressComponents {
	return m.saved
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.predictions.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case ResultsMsg:
		items := make([]list.Item, 0, len(msg.Result.Predictions))
		for _, p := range msg.Result.Predictions {
			items = append(items, predictionItem{p})
		}
		m.setStatus(fmt.Sprintf("%d places for %q", len(items), msg.Result.Query), false)
		return m, m.predictions.SetItems(items)

	case ErrorMsg:
		m.setStatus(msg.Err.Error(), true)
		return m, nil

	case resolvedMsg:
		return m.handleResolved(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
		switch m.flow.State() {
		case addressflow.StateMapSelect:
			return m.updateSearch(msg)
		case addressflow.StatePlaceTypeSelect:
			return m.updatePlaceType(msg)
		case addressflow.StateDetailEntry:
			return m.updateDetails(msg)
		}
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resolved && msg.Type == tea.KeyEnter {
		if err := m.flow.ConfirmLocation(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.resolved = false
		m.setStatus("", false)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.listFocused = !m.listFocused
		if m.listFocused {
			m.query.Blur()
			return m, nil
		}
		return m, m.query.Focus()
	case tea.KeyEnter:
		if !m.listFocused {
			return m, nil
		}
		item, ok := m.predictions.SelectedItem().(predictionItem)
		if !ok {
			return m, nil
		}
		m.setStatus("Resolving "+item.PrimaryText+"...", false)
		return m, m.resolve(item.Prediction)
	}

	if m.listFocused {
		var cmd tea.Cmd
		m.predictions, cmd = m.predictions.Update(msg)
		return m, cmd
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if value := m.query.Value(); value != before {
		m.resolved = false
		m.session.OnQueryChange(value)
	}
	return m, cmd
}

func (m *Model) resolve(prediction geocode.Prediction) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		record, err := session.OnPredictionSelected(ctx, prediction)
		return resolvedMsg{record: record, err: err}
	}
}

func (m *Model) handleResolved(msg resolvedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.setStatus(msg.err.Error(), true)
		return m, nil
	case msg.record == nil:
		m.setStatus("Address unknown, please enter it manually", true)
		return m, nil
	}

	if err := m.flow.SetDraft(msg.record); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.resolved = true
	m.setStatus(msg.record.FullAddress+"  (enter to confirm)", false)
	return m, nil
}

func (m *Model) updatePlaceType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.placeCursor > 0 {
			m.placeCursor--
		}
	case "down", "j":
		if m.placeCursor < len(placeTypes)-1 {
			m.placeCursor++
		}
	case "enter":
		if err := m.flow.SelectPlaceType(placeTypes[m.placeCursor]); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.fields[fieldBuilding].SetValue(m.flow.Details().BuildingName)
		m.fieldFocus = fieldFloor
		return m, m.focusField()
	}
	return m, nil
}

func (m *Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.fieldFocus = (m.fieldFocus + 1) % fieldCount
		return m, m.focusField()
	case tea.KeyShiftTab, tea.KeyUp:
		m.fieldFocus = (m.fieldFocus + fieldCount - 1) % fieldCount
		return m, m.focusField()
	case tea.KeyEnter:
		return m.save()
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *Model) save() (tea.Model, tea.Cmd) {
	details := m.flow.Details()
	details.BuildingName = m.fields[fieldBuilding].Value()
	details.FloorNumber = m.fields[fieldFloor].Value()
	details.DoorNumber = m.fields[fieldDoor].Value()
	details.AdditionalInfo = m.fields[fieldInfo].Value()

	if err := m.flow.SetDetails(details); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	record, err := m.flow.Save()
	if err != nil {
		var verr *addressflow.ValidationError
		if errors.As(err, &verr) {
			names := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				names = append(names, f.Field)
			}
			m.setStatus("Please fill in: "+strings.Join(names, ", "), true)
			return m, nil
		}
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.saved = record
	return m, tea.Quit
}

func (m *Model) back() (tea.Model, tea.Cmd) {
	err := m.flow.Back()
	if errors.Is(err, addressflow.ErrAtStart) || errors.Is(err, addressflow.ErrFlowFinished) {
		return m, tea.Quit
	}
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.setStatus("", false)
	if m.flow.State() == addressflow.StateMapSelect {
		m.resolved = false
		m.listFocused = false
		return m, m.query.Focus()
	}
	return m, nil
}

func (m *Model) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.fieldFocus {
			cmd = m.fields[i].Focus()
			continue
		}
		m.fields[i].Blur()
	}
	return cmd
}

func (m *Model) setStatus(msg string, failed bool) {
	m.status = msg
	m.failed = failed
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.flow.State() {
	case addressflow.StateMapSelect:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("Where should we pick up?"),
			m.query.View(),
			"",
			m.predictions.View(),
		)
	case addressflow.StatePlaceTypeSelect:
		body = m.placeTypeView()
	case addressflow.StateDetailEntry:
		body = m.detailsView()
	default:
		body = m.styles.Title.Render("Address saved")
	}

	status := m.styles.Muted.Render(m.status)
	if m.failed {
		status = m.styles.Error.Render(m.status)
	}
	help := m.styles.Muted.Render("tab: switch focus  enter: select  esc: back")
	return m.styles.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", status, help))
}

func (m *Model) placeTypeView() string {
	lines := []string{m.styles.Title.Render("What kind of place is it?")}
	if draft := m.flow.Draft(); draft != nil {
		lines = append(lines, m.styles.Muted.Render(draft.FullAddress))
	}
	lines = append(lines, "")
	for i, pt := range placeTypes {
		if i == m.placeCursor {
			lines = append(lines, m.styles.Selected.Render("> "+string(pt)))
			continue
		}
		lines = append(lines, m.styles.Prompt.Render("  "+string(pt)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) detailsView() string {
	lines := []string{m.styles.Title.Render("Delivery details"), ""}
	for i, field := range m.fields {
		label := m.styles.Prompt.Render(fmt.Sprintf("%-13s", fieldLabels[i]+":"))
		if i == m.fieldFocus {
			label = m.styles.Selected.Render(fmt.Sprintf("%-13s", fieldLabels[i]+":"))
		}
		lines = append(lines, label+field.View())
	}
	return strings.Join(lines, "\n")
}
