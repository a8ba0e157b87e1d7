package port

import (
	"context"

	"coinlisting/internal/domain/model"
)

// ListingSource produces one coin sequence per call. Implementations keep
// no state between calls.
type ListingSource interface {
	Fetch(ctx context.Context) ([]model.Coin, error)
	Name() string
}
