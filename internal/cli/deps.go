package cli

import (
	"context"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/sigseg"
)

// PublisherFunc открывает publisher. close освобождает соединение.
type PublisherFunc func(ctx context.Context) (pub sigseg.Publisher, close func(), err error)

// JournalFunc открывает журнал. close освобождает пул.
type JournalFunc func(ctx context.Context) (j journal.Journal, close func(), err error)
