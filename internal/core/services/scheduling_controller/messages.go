package scheduling_controller

import (
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

// Msg событие для Update: действие пользователя или результат команды
type Msg interface{}

// Cmd асинхронная работа, результат возвращается в Update как Msg
type Cmd func() Msg

// Действия пользователя

// NavigateMsg месяц назад или вперед, в недельном виде неделя
type NavigateMsg struct {
	Delta int
}

type GoTodayMsg struct{}

type SelectDateMsg struct {
	Date json_types.Date
}

type SetViewMsg struct {
	View ViewMode
}

type SetSearchMsg struct {
	Query string
}

// OpenCreateMsg без даты открывает форму на выбранный день
type OpenCreateMsg struct {
	Date json_types.Date
}

type OpenEditMsg struct {
	Appointment domain.Appointment
}

type CloseModalMsg struct{}

type SubmitMsg struct {
	Form FormValues
}

type RequestDeleteMsg struct {
	ID int64
}

type ConfirmDeleteMsg struct{}

type CancelDeleteMsg struct{}

type ReloadMsg struct{}

// RemoteChangeMsg запись изменили в другой сессии
type RemoteChangeMsg struct {
	Change domain.AgendaChange
}

// Результаты команд

type RangeLoadedMsg struct {
	Range domain.DateRange
	Err   error
}

type OrdersLoadedMsg struct {
	Count int
	Err   error
}

type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

type MutationDoneMsg struct {
	Kind MutationKind
	ID   int64
	Err  error
}
