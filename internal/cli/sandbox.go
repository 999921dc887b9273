package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/autotaller/recepcion-agenda/internal/adapters/in/http"
	"github.com/autotaller/recepcion-agenda/internal/adapters/out/rabbitmq"
	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/autotaller/recepcion-agenda/internal/core/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newSandboxCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Levantar un backend de recepción en memoria",
		Long: `Levanta un backend en memoria con el mismo contrato HTTP que el módulo de
recepción: órdenes, citas, resumen por día y métricas en /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSandbox(cmd.Context(), seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "crear citas de ejemplo alrededor de hoy")
	return cmd
}

func runSandbox(ctx context.Context, seed bool) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mainLogger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("sandbox.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	var eventsPort out.AgendaEventsPort
	publisher, err := rabbitmq.NewAgendaPublisher(cfg, mainLogger)
	if err != nil {
		logger.Error("sandbox.rabbitmq.init_failed", out.LogFields{
			"error": err.Error(),
		})
		return err
	}
	if publisher != nil {
		eventsPort = publisher
		defer func() {
			if err := publisher.Stop(); err != nil {
				logger.Error("sandbox.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sandbox := services.NewRecepcionSandboxService(services.DefaultSandboxOrders(), eventsPort, mainLogger)
	if seed {
		if err := sandbox.SeedDemo(ctx, today(cfg)); err != nil {
			return fmt.Errorf("failed to seed sandbox: %w", err)
		}
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler:           httpadapter.NewSandboxRouter(sandbox, mainLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		logger.Info("sandbox.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("sandbox.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("sandbox.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
