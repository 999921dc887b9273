package scheduling_controller

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/in"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
)

type Options struct {
	Timeout       time.Duration
	DefaultTime   string
	DayCapacity   int
	MonthCapacity int
}

// SchedulingController переводит действия пользователя в изменения State
// и команды стора. Update не блокируется: вся сеть в командах.
type SchedulingController struct {
	store  in.AgendaStoreUseCase
	form   *AppointmentFormModel
	logger out.LoggerPort
	opts   Options
}

func NewSchedulingController(store in.AgendaStoreUseCase, logger out.LoggerPort, opts Options) *SchedulingController {
	if opts.DefaultTime == "" {
		opts.DefaultTime = "09:00"
	}
	if opts.DayCapacity < 1 {
		opts.DayCapacity = 8
	}
	if opts.MonthCapacity < 1 {
		opts.MonthCapacity = 26 * 6
	}

	return &SchedulingController{
		store:  store,
		form:   NewAppointmentFormModel(),
		logger: logger.WithModule("SchedulingController"),
		opts:   opts,
	}
}

// InitialState курсор и выбор на сегодня. Дата из внешней навигации,
// если задана, заменяет сегодняшнюю.
func (c *SchedulingController) InitialState(today json_types.Date, pendingOrderID string, focusDate json_types.Date) State {
	selected := today
	if !focusDate.IsZero() {
		selected = focusDate
	}

	return State{
		Cursor:         selected.FirstOfMonth(),
		SelectedDate:   selected,
		Today:          today,
		View:           ViewMonth,
		PendingOrderID: strings.TrimSpace(pendingOrderID),
	}
}

// Init первая загрузка заказов и активного диапазона
func (c *SchedulingController) Init(s State) (State, []Cmd) {
	s, cmds := c.startLoad(s)
	return s, append([]Cmd{c.loadOrdersCmd()}, cmds...)
}

func (c *SchedulingController) Update(s State, msg Msg) (State, []Cmd) {
	s, cmds := c.update(s, msg)
	return c.applyPendingOrder(s), cmds
}

func (c *SchedulingController) update(s State, msg Msg) (State, []Cmd) {
	switch msg := msg.(type) {
	case NavigateMsg:
		if msg.Delta == 0 {
			return s, nil
		}
		if s.View == ViewWeek {
			s.Cursor = s.Cursor.AddDays(7 * msg.Delta)
		} else {
			s.Cursor = s.Cursor.FirstOfMonth().AddMonths(msg.Delta)
		}
		return c.startLoad(s)

	case GoTodayMsg:
		s.SelectedDate = s.Today
		s.Cursor = c.cursorFor(s.View, s.Today)
		return c.startLoad(s)

	case SelectDateMsg:
		if msg.Date.IsZero() {
			return s, nil
		}
		s.SelectedDate = msg.Date
		return s, nil

	case SetViewMsg:
		if msg.View == s.View || (msg.View != ViewMonth && msg.View != ViewWeek) {
			return s, nil
		}
		s.View = msg.View
		s.Cursor = c.cursorFor(s.View, s.SelectedDate)
		return c.startLoad(s)

	case SetSearchMsg:
		s.Search = msg.Query
		return s, nil

	case ReloadMsg:
		return c.startLoad(s)

	case OpenCreateMsg:
		return c.openCreate(s, msg.Date, ""), nil

	case OpenEditMsg:
		return c.openEdit(s, msg.Appointment), nil

	case CloseModalMsg:
		if s.Modal.Saving {
			return s, nil
		}
		s.Modal = ModalState{}
		return s, nil

	case SubmitMsg:
		return c.submit(s, msg.Form)

	case RequestDeleteMsg:
		if s.Delete.Deleting || msg.ID <= 0 {
			return s, nil
		}
		s.Delete = DeleteState{ConfirmID: msg.ID}
		return s, nil

	case CancelDeleteMsg:
		if s.Delete.Deleting {
			return s, nil
		}
		s.Delete = DeleteState{}
		return s, nil

	case ConfirmDeleteMsg:
		if s.Delete.ConfirmID == 0 || s.Delete.Deleting {
			return s, nil
		}
		s.Delete.Deleting = true
		return s, []Cmd{c.removeCmd(s.ActiveRange(), s.Delete.ConfirmID)}

	case RemoteChangeMsg:
		if !msg.Change.Affects(s.ActiveRange()) {
			return s, nil
		}
		c.logger.Debug("agenda.remote_change", out.LogFields{
			"cita_id": msg.Change.AppointmentID,
			"accion":  msg.Change.Action,
		})
		return c.startLoad(s)

	case RangeLoadedMsg:
		return c.rangeLoaded(s, msg)

	case OrdersLoadedMsg:
		return c.ordersLoaded(s, msg), nil

	case MutationDoneMsg:
		return c.mutationDone(s, msg), nil
	}

	return s, nil
}

func (c *SchedulingController) cursorFor(view ViewMode, date json_types.Date) json_types.Date {
	if view == ViewWeek {
		return date
	}
	return date.FirstOfMonth()
}

func (c *SchedulingController) startLoad(s State) (State, []Cmd) {
	r := s.ActiveRange()
	s.Loading = true
	s.LoadingRange = r
	s.Error = ""
	return s, []Cmd{c.loadRangeCmd(r)}
}

func (c *SchedulingController) rangeLoaded(s State, msg RangeLoadedMsg) (State, []Cmd) {
	if errors.Is(msg.Err, domain.ErrStaleLoad) {
		// Диапазон уже записан другой загрузкой, например перечитыванием после записи
		if msg.Range == s.ActiveRange() {
			if snapshot, ok := c.store.SnapshotFor(msg.Range); ok && !snapshot.Stale {
				s.Loading = false
			}
		}
		return s, nil
	}

	// Ответ для диапазона, с которого пользователь уже ушел
	if msg.Range != s.ActiveRange() {
		// Старая загрузка стартовала позже новой и перехватила цель стора,
		// даже если сама потом упала
		if c.store.ActiveRange() != s.ActiveRange() {
			return c.startLoad(s)
		}
		return s, nil
	}

	s.Loading = false
	if msg.Err != nil {
		c.logger.Warn("agenda.range.failed", out.LogFields{
			"range": msg.Range.String(),
			"error": msg.Err.Error(),
		})
		s.Error = domain.UserMessage(msg.Err, domain.MsgLoadAppointments)
	}
	return s, nil
}

func (c *SchedulingController) ordersLoaded(s State, msg OrdersLoadedMsg) State {
	if msg.Err != nil {
		s.Error = domain.UserMessage(msg.Err, domain.MsgLoadOrdersFailed)
		return s
	}

	s.OrdersLoaded = true
	if s.PendingOrderID != "" && !c.pendingOrderExists(s.PendingOrderID) {
		c.logger.Warn("agenda.pending_order.not_found", out.LogFields{
			"orden_admision_id": s.PendingOrderID,
		})
	}
	return s
}

func (c *SchedulingController) openCreate(s State, date json_types.Date, orderID string) State {
	if date.IsZero() {
		date = s.SelectedDate
	}
	form := NewForm(date, c.opts.DefaultTime)
	form.OrderID = orderID

	s.Modal = ModalState{Mode: ModalCreate, Form: form}
	return s
}

func (c *SchedulingController) openEdit(s State, a domain.Appointment) State {
	s.Modal = ModalState{
		Mode:           ModalEdit,
		EditingID:      a.ID,
		EditingOrderID: a.OrderID,
		Form:           FormFromAppointment(a),
	}
	return s
}

func (c *SchedulingController) submit(s State, form FormValues) (State, []Cmd) {
	if !s.Modal.Open() || s.Modal.Saving {
		return s, nil
	}
	s.Modal.Form = form

	orders := c.store.Orders()
	if s.Modal.Mode == ModalEdit && s.Modal.EditingOrderID > 0 {
		// Заказ уже записанной машины мог выпасть из списка доступных
		if _, ok := domain.FindOrder(orders, s.Modal.EditingOrderID); !ok {
			orders = append(append([]domain.Order(nil), orders...), domain.Order{ID: s.Modal.EditingOrderID})
		}
	}

	payload, err := c.form.Validate(form, orders)
	if err != nil {
		s.Modal.Error = domain.UserMessage(err, MsgValidationError)
		return s, nil
	}

	s.Modal.Error = ""
	s.Modal.Saving = true
	if s.Modal.Mode == ModalEdit {
		return s, []Cmd{c.updateCmd(s.ActiveRange(), s.Modal.EditingID, payload)}
	}
	return s, []Cmd{c.createCmd(s.ActiveRange(), payload)}
}

func (c *SchedulingController) mutationDone(s State, msg MutationDoneMsg) State {
	if msg.Kind == MutationDelete {
		s.Delete = DeleteState{}
		if msg.Err != nil {
			s.Error = domain.UserMessage(msg.Err, domain.MsgDeleteFailed)
			var refreshErr *domain.RefreshError
			if !errors.As(msg.Err, &refreshErr) {
				return s
			}
		}
		if s.Modal.Mode == ModalEdit && s.Modal.EditingID == msg.ID {
			s.Modal = ModalState{}
		}
		return s
	}

	s.Modal.Saving = false
	if msg.Err == nil {
		s.Modal = ModalState{}
		return s
	}

	// Запись прошла, не удалось только обновить агенду
	var refreshErr *domain.RefreshError
	if errors.As(msg.Err, &refreshErr) {
		s.Modal = ModalState{}
		s.Error = domain.UserMessage(msg.Err, domain.MsgRefreshFailed)
		return s
	}

	s.Modal.Error = domain.UserMessage(msg.Err, domain.MsgSaveFailed)
	return s
}

// applyPendingOrder открывает форму для заказа из внешней навигации,
// как только он появился среди загруженных заказов
func (c *SchedulingController) applyPendingOrder(s State) State {
	if s.PendingOrderID == "" || !s.OrdersLoaded {
		return s
	}
	// Открытую форму или подтверждение удаления не подменяем, метка ждет
	if s.Modal.Open() || s.Delete.ConfirmID != 0 {
		return s
	}
	if !c.pendingOrderExists(s.PendingOrderID) {
		return s
	}

	s = c.openCreate(s, s.SelectedDate, s.PendingOrderID)
	s.PendingOrderID = ""
	return s
}

func (c *SchedulingController) pendingOrderExists(raw string) bool {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	_, ok := domain.FindOrder(c.store.Orders(), id)
	return ok
}

func (c *SchedulingController) context() (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(context.Background(), c.opts.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *SchedulingController) loadRangeCmd(r domain.DateRange) Cmd {
	return func() Msg {
		ctx, cancel := c.context()
		defer cancel()
		_, err := c.store.LoadRange(ctx, r)
		return RangeLoadedMsg{Range: r, Err: err}
	}
}

func (c *SchedulingController) loadOrdersCmd() Cmd {
	return func() Msg {
		ctx, cancel := c.context()
		defer cancel()
		orders, err := c.store.ListOrders(ctx)
		return OrdersLoadedMsg{Count: len(orders), Err: err}
	}
}

func (c *SchedulingController) createCmd(active domain.DateRange, payload domain.AppointmentPayload) Cmd {
	return func() Msg {
		ctx, cancel := c.context()
		defer cancel()
		return MutationDoneMsg{Kind: MutationCreate, Err: c.store.Create(ctx, active, payload)}
	}
}

func (c *SchedulingController) updateCmd(active domain.DateRange, id int64, payload domain.AppointmentPayload) Cmd {
	return func() Msg {
		ctx, cancel := c.context()
		defer cancel()
		return MutationDoneMsg{Kind: MutationUpdate, ID: id, Err: c.store.Update(ctx, active, id, payload)}
	}
}

func (c *SchedulingController) removeCmd(active domain.DateRange, id int64) Cmd {
	return func() Msg {
		ctx, cancel := c.context()
		defer cancel()
		return MutationDoneMsg{Kind: MutationDelete, ID: id, Err: c.store.Remove(ctx, active, id)}
	}
}
