package ledger

import (
	"context"
	"sync"
	"time"

	"lifeops/internal/models"
	"lifeops/pkg/logger"
)

// Recorder is the write side of the invocation ledger. Components that
// call external services record every attempt through it.
type Recorder interface {
	Record(service, endpoint, outcome string)
}

// Sink receives a copy of every recorded entry, e.g. to ship it to a
// message broker. Sink failures never affect the in-memory record.
type Sink interface {
	Publish(ctx context.Context, entry models.LedgerEntry) error
}

// Ledger is the append-only record of external-service invocations.
// Appends are safe under concurrent use; entries are never mutated or
// removed. The ledger is advisory observability data: it is not rolled
// back when a pipeline run aborts.
type Ledger struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
	sink    Sink
	log     *logger.Logger
}

// New creates an empty Ledger.
func New(log *logger.Logger) *Ledger {
	return &Ledger{log: log}
}

// WithSink attaches a best-effort mirror for recorded entries.
func (l *Ledger) WithSink(sink Sink) *Ledger {
	l.sink = sink
	return l
}

// Record appends one invocation entry, stamping it with the current
// time. The entry is mirrored to the sink if one is attached; a sink
// failure is logged and otherwise ignored.
func (l *Ledger) Record(service, endpoint, outcome string) {
	entry := models.LedgerEntry{
		Service:   service,
		Endpoint:  endpoint,
		Outcome:   outcome,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		if err := sink.Publish(context.Background(), entry); err != nil && l.log != nil {
			l.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("failed to publish ledger entry to sink")
		}
	}
}

// Entries returns a copy of all recorded entries in append order.
func (l *Ledger) Entries() []models.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
