package scheduling_controller

import (
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
)

type ViewMode string

const (
	ViewMonth ViewMode = "Mes"
	ViewWeek  ViewMode = "Semana"
)

type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

// ModalState форма создания или редактирования
type ModalState struct {
	Mode      ModalMode
	EditingID int64
	// EditingOrderID заказ редактируемой записи, может отсутствовать в списке заказов
	EditingOrderID int64
	Form           FormValues
	Error          string
	Saving         bool
}

func (m ModalState) Open() bool {
	return m.Mode != ModalClosed
}

// DeleteState подтверждение удаления
type DeleteState struct {
	ConfirmID int64
	Deleting  bool
}

// State все состояние экрана. Кэш записей живет в сторе, здесь только
// навигация, выбор и состояние форм.
type State struct {
	Cursor       json_types.Date
	SelectedDate json_types.Date
	Today        json_types.Date
	View         ViewMode
	Search       string

	Modal  ModalState
	Delete DeleteState

	Loading      bool
	LoadingRange domain.DateRange
	OrdersLoaded bool
	// Error баннер над календарем
	Error string

	// PendingOrderID заказ из внешней навигации, для которого нужно открыть форму
	PendingOrderID string
}

// ActiveRange диапазон, который показывает экран
func (s State) ActiveRange() domain.DateRange {
	if s.View == ViewWeek {
		return domain.WeekRange(s.Cursor)
	}
	return domain.MonthRange(s.Cursor)
}
