package tui

import (
	"fmt"
	"strings"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/services/scheduling_controller"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var weekdayHeaders = []string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

func (m *AgendaApp) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.state.Error != "" {
		b.WriteString(errorStyle.Render("  " + m.state.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var body string
	if m.state.View == scheduling_controller.ViewWeek {
		body = m.renderWeek()
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMonthGrid(), "  ", m.renderDayList())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderTotals()))
	b.WriteString("\n\n")

	switch {
	case m.state.Delete.ConfirmID != 0:
		b.WriteString(m.renderDeleteConfirm())
		b.WriteString("\n")
		b.WriteString(renderHelp(keys.confirmHelp()))
	case m.state.Modal.Open():
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(renderHelp(keys.formHelp()))
	default:
		if m.searching || m.state.Search != "" {
			b.WriteString(labelStyle.Render("Buscar: "))
			b.WriteString(m.search.View())
			b.WriteString("\n")
		}
		b.WriteString(renderHelp(keys.calendarHelp()))
	}

	return b.String()
}

func (m *AgendaApp) renderHeader() string {
	title := "Citas de recepción · " + monthName(m.state.Cursor)
	if m.state.View == scheduling_controller.ViewWeek {
		r := m.state.ActiveRange()
		title = fmt.Sprintf("Citas de recepción · Semana %s a %s", r.From.Key(), r.To.Key())
	}

	header := titleStyle.Render(title)
	if m.state.Loading {
		header += mutedStyle.Render("  cargando...")
	}
	if m.controller.Stale(m.state) {
		header += warningStyle.Render("  (datos anteriores)")
	}
	return header
}

func (m *AgendaApp) renderMonthGrid() string {
	var b strings.Builder

	for _, day := range weekdayHeaders {
		b.WriteString(weekdayStyle.Render(day))
	}
	b.WriteString("\n")

	for i, cell := range m.controller.Grid(m.state) {
		b.WriteString(renderCell(cell, m.controller.DayCapacity()))
		if (i+1)%scheduling_controller.DaysPerWeek == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderCell(cell scheduling_controller.DayCell, capacity int) string {
	label := fmt.Sprintf("%2d", cell.Date.Day)
	if cell.HasSummary && cell.Summary.Total > 0 {
		label = fmt.Sprintf("%2d %d/%d", cell.Date.Day, cell.Summary.Active(), capacity)
	}

	switch {
	case cell.Selected:
		return selectedCellStyle.Render(label)
	case !cell.InMonth:
		return outsideCellStyle.Render(label)
	case cell.Today:
		return todayCellStyle.Render(label)
	case cell.Full:
		return fullCellStyle.Render(label)
	default:
		return cellStyle.Render(label)
	}
}

func (m *AgendaApp) renderDayList() string {
	var b strings.Builder

	b.WriteString(textStyle.Bold(true).Render(m.state.SelectedDate.Key()))
	b.WriteString("\n\n")

	list := m.controller.DayList(m.state)
	if len(list) == 0 {
		b.WriteString(mutedStyle.Italic(true).Render("Sin citas"))
		return b.String()
	}

	for i, a := range list {
		line := renderAppointment(a)
		if i == m.selectedIdx {
			line = selectedItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderAppointment(a domain.Appointment) string {
	vehicle := strings.TrimSpace(a.VehicleBrand + " " + a.VehicleType)
	if a.VehicleModelYear != nil {
		vehicle = fmt.Sprintf("%s %d", vehicle, *a.VehicleModelYear)
	}

	parts := []string{
		textStyle.Bold(true).Render(a.Time.String()),
		textStyle.Render(a.ClientName),
		statusStyle(string(a.Status)).Render(string(a.Status)),
	}
	line := strings.Join(parts, "  ")
	if vehicle != "" {
		line += mutedStyle.Render("  " + vehicle)
	}
	if a.Plates != "" {
		line += mutedStyle.Render("  " + a.Plates)
	}
	if a.ClaimCode != "" {
		line += mutedStyle.Render("  #" + a.ClaimCode)
	}
	if notes := a.NotesText(); notes != "" {
		line += "\n      " + mutedStyle.Italic(true).Render(notes)
	}
	return line
}

func (m *AgendaApp) renderWeek() string {
	columns := m.controller.WeekColumns(m.state)
	rendered := make([]string, 0, len(columns))

	for _, column := range columns {
		var b strings.Builder
		header := fmt.Sprintf("%s %02d", column.Label, column.Date.Day)
		switch {
		case column.Selected:
			header = focusedLabelStyle.Render(header)
		case column.Today:
			header = textStyle.Underline(true).Render(header)
		default:
			header = labelStyle.Render(header)
		}
		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d", column.Summary.Active(), m.controller.DayCapacity())))
		b.WriteString("\n\n")

		if len(column.Appointments) == 0 {
			b.WriteString(mutedStyle.Render("-"))
		}
		for _, a := range column.Appointments {
			b.WriteString(textStyle.Render(a.Time.String() + " " + a.ClientName))
			b.WriteString("\n")
			b.WriteString(statusStyle(string(a.Status)).Render("  " + string(a.Status)))
			b.WriteString("\n")
		}
		rendered = append(rendered, columnStyle.Render(b.String()))
	}

	week := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.JoinVertical(lipgloss.Left, week, "", m.renderDayList())
}

func (m *AgendaApp) renderTotals() string {
	totals := m.controller.Totals(m.state)

	rows := []string{
		textStyle.Bold(true).Render("Resumen"),
		"",
		fmt.Sprintf("Total       %d", totals.Total),
		fmt.Sprintf("Pendientes  %d", totals.Pending),
		successStyle.Render(fmt.Sprintf("Completadas %d", totals.Completed)),
		errorStyle.UnsetBold().Render(fmt.Sprintf("Canceladas  %d", totals.Cancelled)),
		fmt.Sprintf("Hoy         %d", totals.TodayTotal),
		"",
		fmt.Sprintf("Ocupación   %d%% de %d", totals.Occupancy, totals.Capacity),
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m *AgendaApp) renderForm() string {
	var b strings.Builder

	title := "Nueva cita"
	if m.state.Modal.Mode == scheduling_controller.ModalEdit {
		title = fmt.Sprintf("Editar cita #%d", m.state.Modal.EditingID)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	orders := m.controller.Orders()
	orderLabel := "Selecciona una orden"
	if m.form.orderIdx >= 0 && m.form.orderIdx < len(orders) {
		orderLabel = orders[m.form.orderIdx].Label()
	} else if m.form.fallbackOrderID != "" {
		orderLabel = "Orden #" + m.form.fallbackOrderID
	}

	b.WriteString(m.renderField(fieldOrder, "Orden", "‹ "+orderLabel+" ›"))
	b.WriteString(m.renderField(fieldDate, "Fecha", m.form.date.View()))
	b.WriteString(m.renderField(fieldTime, "Hora", m.form.time.View()))
	b.WriteString(m.renderField(fieldStatus, "Estado", "‹ "+string(domain.AppointmentStatuses[m.form.statusIdx])+" ›"))
	b.WriteString(m.renderField(fieldNotes, "Notas", m.form.notes.View()))

	if m.state.Modal.Error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.state.Modal.Error))
	}
	if m.state.Modal.Saving {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Guardando..."))
	}

	return modalStyle.Render(b.String())
}

func (m *AgendaApp) renderField(field int, label, value string) string {
	style := labelStyle
	if m.form.focus == field {
		style = focusedLabelStyle
	}
	return style.Width(8).Render(label) + " " + value + "\n"
}

func (m *AgendaApp) renderDeleteConfirm() string {
	text := fmt.Sprintf("¿Eliminar la cita #%d?", m.state.Delete.ConfirmID)
	if m.state.Delete.Deleting {
		text += mutedStyle.Render("  eliminando...")
	}
	return modalStyle.BorderForeground(colorDanger).Render(text)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}
