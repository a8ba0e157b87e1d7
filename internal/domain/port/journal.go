package port

import (
	"context"

	"coinlisting/internal/domain/model"
)

// JournalPort records load attempts. It never stores coin data.
type JournalPort interface {
	Record(ctx context.Context, rec model.LoadRecord) error
	Recent(ctx context.Context, site string, limit int) ([]model.LoadRecord, error)
	Ping(ctx context.Context) error
	Close() error
}
