package tui

import (
	"strconv"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/services/scheduling_controller"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Поля формы в порядке обхода
const (
	fieldOrder = iota
	fieldDate
	fieldTime
	fieldStatus
	fieldNotes
	fieldCount
)

type appointmentForm struct {
	orderIdx  int
	date      textinput.Model
	time      textinput.Model
	statusIdx int
	notes     textinput.Model
	focus     int
	// fallbackOrderID заказ, которого нет среди загруженных
	fallbackOrderID string
}

// AgendaApp модель Bubble Tea поверх SchedulingController. Здесь только
// виджеты и раскладка, состояние экрана живет в scheduling_controller.State.
type AgendaApp struct {
	controller *scheduling_controller.SchedulingController
	state      scheduling_controller.State

	width  int
	height int

	selectedIdx int
	searching   bool
	search      textinput.Model
	form        appointmentForm
}

func NewAgendaApp(controller *scheduling_controller.SchedulingController, state scheduling_controller.State) *AgendaApp {
	search := textinput.New()
	search.Placeholder = "cliente, siniestro, placas, marca"
	search.CharLimit = 64
	search.Width = 40

	return &AgendaApp{
		controller: controller,
		state:      state,
		search:     search,
		form:       newAppointmentForm(),
	}
}

func newAppointmentForm() appointmentForm {
	date := textinput.New()
	date.Placeholder = "AAAA-MM-DD"
	date.CharLimit = 10
	date.Width = 12

	clock := textinput.New()
	clock.Placeholder = "HH:MM"
	clock.CharLimit = 5
	clock.Width = 8

	notes := textinput.New()
	notes.Placeholder = "Notas"
	notes.CharLimit = 500
	notes.Width = 40

	return appointmentForm{date: date, time: clock, notes: notes}
}

// State текущее состояние контроллера
func (m *AgendaApp) State() scheduling_controller.State {
	return m.state
}

func (m *AgendaApp) Init() tea.Cmd {
	state, cmds := m.controller.Init(m.state)
	return m.apply(state, cmds)
}

func (m *AgendaApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Мигание курсора и прочие служебные сообщения виджетов
	inputCmd := m.updateInputs(msg)

	// Результаты команд и внешние события идут прямо в контроллер
	return m, tea.Batch(inputCmd, m.dispatch(msg))
}

func (m *AgendaApp) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.state.Modal.Open():
		cmd = m.updateFocusedInput(msg)
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	}
	return cmd
}

func (m *AgendaApp) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.form.focus {
	case fieldDate:
		m.form.date, cmd = m.form.date.Update(msg)
	case fieldTime:
		m.form.time, cmd = m.form.time.Update(msg)
	case fieldNotes:
		m.form.notes, cmd = m.form.notes.Update(msg)
	}
	return cmd
}

// dispatch отдает событие контроллеру и переводит его команды в tea.Cmd
func (m *AgendaApp) dispatch(msg scheduling_controller.Msg) tea.Cmd {
	state, cmds := m.controller.Update(m.state, msg)
	return m.apply(state, cmds)
}

func (m *AgendaApp) apply(state scheduling_controller.State, cmds []scheduling_controller.Cmd) tea.Cmd {
	prev := m.state.Modal
	m.state = state

	// Форма открылась (в том числе по заказу из внешней навигации)
	if state.Modal.Open() && (!prev.Open() || prev.EditingID != state.Modal.EditingID || prev.Mode != state.Modal.Mode) {
		m.loadForm(state.Modal.Form)
	}
	if n := len(m.controller.DayList(m.state)); m.selectedIdx >= n {
		m.selectedIdx = max(n-1, 0)
	}

	batch := make([]tea.Cmd, 0, len(cmds))
	for _, cmd := range cmds {
		batch = append(batch, toTeaCmd(cmd))
	}
	return tea.Batch(batch...)
}

func toTeaCmd(cmd scheduling_controller.Cmd) tea.Cmd {
	return func() tea.Msg {
		return cmd()
	}
}

func (m *AgendaApp) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.state.Delete.ConfirmID != 0:
		return m.handleDeleteKeys(msg)
	case m.state.Modal.Open():
		return m.handleFormKeys(msg)
	case m.searching:
		return m.handleSearchKeys(msg)
	default:
		return m.handleCalendarKeys(msg)
	}
}

func (m *AgendaApp) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.PrevDay):
		return m, m.moveSelection(-1)
	case key.Matches(msg, keys.NextDay):
		return m, m.moveSelection(1)
	case key.Matches(msg, keys.PrevWeek):
		return m, m.moveSelection(-7)
	case key.Matches(msg, keys.NextWeek):
		return m, m.moveSelection(7)
	case key.Matches(msg, keys.PrevRange):
		return m, m.dispatch(scheduling_controller.NavigateMsg{Delta: -1})
	case key.Matches(msg, keys.NextRange):
		return m, m.dispatch(scheduling_controller.NavigateMsg{Delta: 1})
	case key.Matches(msg, keys.Today):
		return m, m.dispatch(scheduling_controller.GoTodayMsg{})
	case key.Matches(msg, keys.View):
		view := scheduling_controller.ViewWeek
		if m.state.View == scheduling_controller.ViewWeek {
			view = scheduling_controller.ViewMonth
		}
		return m, m.dispatch(scheduling_controller.SetViewMsg{View: view})
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.state.Search)
		return m, m.search.Focus()
	case key.Matches(msg, keys.New):
		return m, m.dispatch(scheduling_controller.OpenCreateMsg{})
	case key.Matches(msg, keys.Edit):
		if a, ok := m.selectedAppointment(); ok {
			return m, m.dispatch(scheduling_controller.OpenEditMsg{Appointment: a})
		}
	case key.Matches(msg, keys.Delete):
		if a, ok := m.selectedAppointment(); ok {
			return m, m.dispatch(scheduling_controller.RequestDeleteMsg{ID: a.ID})
		}
	case key.Matches(msg, keys.NextItem):
		m.cycleAppointment(1)
	case key.Matches(msg, keys.PrevItem):
		m.cycleAppointment(-1)
	case key.Matches(msg, keys.Reload):
		return m, m.dispatch(scheduling_controller.ReloadMsg{})
	}
	return m, nil
}

// moveSelection сдвигает выбранный день; при выходе за активный диапазон
// сначала переключает месяц или неделю
func (m *AgendaApp) moveSelection(days int) tea.Cmd {
	target := m.state.SelectedDate.AddDays(days)
	var cmds []tea.Cmd

	if r := m.state.ActiveRange(); !r.Contains(target) {
		delta := 1
		if target.Before(r.From) {
			delta = -1
		}
		if m.state.View == scheduling_controller.ViewWeek {
			// Воскресенье вне рабочей недели, перескакиваем его
			if target.Weekday() == 0 {
				target = target.AddDays(delta)
			}
		}
		cmds = append(cmds, m.dispatch(scheduling_controller.NavigateMsg{Delta: delta}))
	}

	cmds = append(cmds, m.dispatch(scheduling_controller.SelectDateMsg{Date: target}))
	m.selectedIdx = 0
	return tea.Batch(cmds...)
}

func (m *AgendaApp) cycleAppointment(step int) {
	n := len(m.controller.DayList(m.state))
	if n == 0 {
		m.selectedIdx = 0
		return
	}
	m.selectedIdx = (m.selectedIdx + step + n) % n
}

func (m *AgendaApp) selectedAppointment() (domain.Appointment, bool) {
	list := m.controller.DayList(m.state)
	if m.selectedIdx < 0 || m.selectedIdx >= len(list) {
		return domain.Appointment{}, false
	}
	return list[m.selectedIdx], true
}

func (m *AgendaApp) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.dispatch(scheduling_controller.SetSearchMsg{Query: ""})
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedIdx = 0
	return m, tea.Batch(cmd, m.dispatch(scheduling_controller.SetSearchMsg{Query: m.search.Value()}))
}

func (m *AgendaApp) handleDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Delete.Deleting {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Confirm):
		return m, m.dispatch(scheduling_controller.ConfirmDeleteMsg{})
	case key.Matches(msg, keys.Cancel):
		return m, m.dispatch(scheduling_controller.CancelDeleteMsg{})
	}
	return m, nil
}

func (m *AgendaApp) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Modal.Saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Close):
		return m, m.dispatch(scheduling_controller.CloseModalMsg{})
	case key.Matches(msg, keys.Save):
		return m, m.dispatch(scheduling_controller.SubmitMsg{Form: m.formValues()})
	case key.Matches(msg, keys.NextField):
		return m, m.focusField((m.form.focus + 1) % fieldCount)
	case key.Matches(msg, keys.PrevField):
		return m, m.focusField((m.form.focus + fieldCount - 1) % fieldCount)
	}

	switch m.form.focus {
	case fieldOrder:
		m.form.orderIdx = cycleIndex(m.form.orderIdx, len(m.controller.Orders()), msg)
		return m, nil
	case fieldStatus:
		m.form.statusIdx = cycleIndex(m.form.statusIdx, len(domain.AppointmentStatuses), msg)
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func cycleIndex(idx, n int, msg tea.KeyMsg) int {
	if n == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Cycle):
		return (idx + 1) % n
	case key.Matches(msg, keys.CycleBack):
		return (idx + n - 1) % n
	}
	return idx
}

func (m *AgendaApp) focusField(field int) tea.Cmd {
	m.form.focus = field
	m.form.date.Blur()
	m.form.time.Blur()
	m.form.notes.Blur()

	switch field {
	case fieldDate:
		return m.form.date.Focus()
	case fieldTime:
		return m.form.time.Focus()
	case fieldNotes:
		return m.form.notes.Focus()
	}
	return nil
}

// loadForm переносит значения формы контроллера в виджеты
func (m *AgendaApp) loadForm(values scheduling_controller.FormValues) {
	m.form.orderIdx = -1
	orders := m.controller.Orders()
	if id, err := strconv.ParseInt(values.OrderID, 10, 64); err == nil {
		for i, order := range orders {
			if order.ID == id {
				m.form.orderIdx = i
				break
			}
		}
	}

	m.form.statusIdx = 0
	for i, status := range domain.AppointmentStatuses {
		if string(status) == values.Status {
			m.form.statusIdx = i
			break
		}
	}

	m.form.date.SetValue(values.Date)
	m.form.time.SetValue(values.Time)
	m.form.notes.SetValue(values.Notes)
	m.form.fallbackOrderID = values.OrderID
	m.focusField(fieldOrder)
}

func (m *AgendaApp) formValues() scheduling_controller.FormValues {
	orderID := ""
	orders := m.controller.Orders()
	if m.form.orderIdx >= 0 && m.form.orderIdx < len(orders) {
		orderID = strconv.FormatInt(orders[m.form.orderIdx].ID, 10)
	} else {
		orderID = m.form.fallbackOrderID
	}

	return scheduling_controller.FormValues{
		OrderID: orderID,
		Date:    m.form.date.Value(),
		Time:    m.form.time.Value(),
		Status:  string(domain.AppointmentStatuses[m.form.statusIdx]),
		Notes:   m.form.notes.Value(),
	}
}

func monthName(d json_types.Date) string {
	return monthNames[d.Month-1] + " " + strconv.Itoa(d.Year)
}

var monthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}
