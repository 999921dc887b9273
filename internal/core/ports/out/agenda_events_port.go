package out

import (
	"context"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
)

// AgendaEventsPort публикация изменений записей для других сессий
type AgendaEventsPort interface {
	PublishChange(ctx context.Context, change domain.AgendaChange) error
}
