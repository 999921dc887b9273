package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/adapters/in/rabbitmq"
	"github.com/autotaller/recepcion-agenda/internal/adapters/in/tui"
	"github.com/autotaller/recepcion-agenda/internal/adapters/out/cache"
	"github.com/autotaller/recepcion-agenda/internal/adapters/out/recepcion"
	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/json_types"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/autotaller/recepcion-agenda/internal/core/services"
	"github.com/autotaller/recepcion-agenda/internal/core/services/scheduling_controller"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newAgendaCmd() *cobra.Command {
	var orderID string
	var date string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Abrir el calendario de citas",
		Long: `Abre el calendario de citas. Con --order-id se abre directamente el
formulario de nueva cita para esa orden de admisión, en cuanto la orden
aparece entre las órdenes disponibles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgenda(cmd.Context(), orderID, date)
		},
	}

	cmd.Flags().StringVar(&orderID, "order-id", "", "orden de admisión para agendar")
	cmd.Flags().StringVar(&date, "date", "", "día a seleccionar al abrir (AAAA-MM-DD)")
	return cmd
}

func runAgenda(ctx context.Context, orderID string, date string) error {
	var focus json_types.Date
	if date != "" {
		parsed, err := json_types.ParseDate(date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		focus = parsed
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Интерфейс занимает терминал, поэтому лог идет в файл
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	mainLogger, err := newLogger(cfg, logFile)
	if err != nil {
		return err
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"recepcionUrl":    cfg.Recepcion.URL,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
		"orderId":         orderID,
	})

	recepcionAdapter := recepcion.NewRecepcionAdapter(cfg, mainLogger.WithModule("RecepcionAdapter"))

	var cachePort out.AgendaCachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			return err
		}
		cachePort = cacheAdapter
	}

	store := services.NewAgendaStoreService(recepcionAdapter, cachePort, mainLogger)
	controller := scheduling_controller.NewSchedulingController(store, mainLogger, scheduling_controller.Options{
		Timeout:       cfg.Recepcion.Timeout,
		DefaultTime:   cfg.Agenda.DefaultTime,
		DayCapacity:   cfg.Agenda.DayCapacity,
		MonthCapacity: cfg.Agenda.MonthCapacity,
	})

	state := controller.InitialState(today(cfg), orderID, focus)
	app := tui.NewAgendaApp(controller, state)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Изменения из других сессий перечитывают активный диапазон
	listener, err := rabbitmq.NewAgendaChangeListener(cfg, mainLogger, func(change domain.AgendaChange) {
		program.Send(scheduling_controller.RemoteChangeMsg{Change: change})
	})
	if err != nil {
		logger.Error("app.rabbitmq.init_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}
	if listener != nil {
		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			return err
		}
		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		logger.Error("app.tui.failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}

	logger.Info("app.shutdown", out.LogFields{
		"version": cfg.App.Version,
	})
	return nil
}

// today сегодняшняя дата в часовом поясе мастерской
func today(cfg *config.Config) json_types.Date {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.Local
	}
	return json_types.DateOf(time.Now().In(loc))
}
