package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("63")
	colorMuted   = lipgloss.Color("241")
	colorText    = lipgloss.Color("252")
	colorDanger  = lipgloss.Color("203")
	colorWarning = lipgloss.Color("214")
	colorSuccess = lipgloss.Color("78")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	errorStyle   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	weekdayStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(cellWidth).Align(lipgloss.Center)

	cellStyle         = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	outsideCellStyle  = cellStyle.Foreground(lipgloss.Color("238"))
	todayCellStyle    = cellStyle.Underline(true).Bold(true)
	selectedCellStyle = cellStyle.Background(colorPrimary).Foreground(lipgloss.Color("0"))
	fullCellStyle     = cellStyle.Foreground(colorDanger)

	selectedItemStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(colorText)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	modalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(1, 2)

	columnStyle = lipgloss.NewStyle().Width(columnWidth).Padding(0, 1)

	focusedLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	labelStyle        = lipgloss.NewStyle().Foreground(colorMuted)
)

const (
	cellWidth   = 9
	columnWidth = 20
)

var statusColors = map[string]lipgloss.Color{
	"Programada":   lipgloss.Color("75"),
	"Confirmada":   colorSuccess,
	"Reprogramada": colorWarning,
	"En espera":    lipgloss.Color("180"),
	"Demorada":     colorWarning,
	"Cancelada":    colorDanger,
	"Completada":   lipgloss.Color("42"),
	"No show":      lipgloss.Color("245"),
}

func statusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return mutedStyle
}
