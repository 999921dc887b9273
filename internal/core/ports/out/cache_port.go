package out

import (
	"context"

	"github.com/autotaller/recepcion-agenda/internal/core/domain"
)

// AgendaCachePort история последних загруженных диапазонов.
// Это не основной кэш хранилища, а только подсказка на время загрузки.
type AgendaCachePort interface {
	GetRange(ctx context.Context, r domain.DateRange) (domain.AgendaSnapshot, bool)
	StoreRange(ctx context.Context, snapshot domain.AgendaSnapshot)
	InvalidateAll(ctx context.Context)
}
