package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/autotaller/recepcion-agenda/internal/adapters/out/logger"
	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/spf13/cobra"
)

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "recepcion-agenda",
		Short: "Agenda de citas de recepción del taller",
		Long: `recepcion-agenda muestra el calendario de citas de recepción y permite
crear, reprogramar y eliminar citas contra el backend del módulo de recepción.

Sin subcomando se abre la agenda.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newAgendaCmd())
	root.AddCommand(newSandboxCmd())
	return root
}

// Execute точка входа CLI; без подкоманды запускается agenda
func Execute(version string) {
	root := newRootCmd(version)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "agenda")
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger логгер с уровнем и часовым поясом из конфигурации
func newLogger(cfg *config.Config, w io.Writer) (out.LoggerPort, error) {
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, cfg.Log.Level, w)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return mainLogger, nil
}
