package storage

import (
	"context"

	"coinlisting/internal/domain/model"
	"coinlisting/internal/domain/port"
)

var _ port.JournalPort = NopJournal{}

// NopJournal is used when the journal driver is "none".
type NopJournal struct{}

func (NopJournal) Record(context.Context, model.LoadRecord) error { return nil }

func (NopJournal) Recent(context.Context, string, int) ([]model.LoadRecord, error) {
	return []model.LoadRecord{}, nil
}

func (NopJournal) Ping(context.Context) error { return nil }

func (NopJournal) Close() error { return nil }
