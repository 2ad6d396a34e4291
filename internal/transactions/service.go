package transactions

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/clearhouse-io/clearhouse/internal/engine"
	"github.com/clearhouse-io/clearhouse/internal/notification"
	"github.com/clearhouse-io/clearhouse/internal/stream"
)

// Service serializes access to one engine ledger. The engine itself is
// single-threaded; operation order is load-bearing (a dispute must see the
// deposit it references), so a single mutex applies records in arrival order.
type Service struct {
	mu       sync.Mutex
	ledger   *engine.Ledger
	logger   *slog.Logger
	notifier notification.Notifier
}

// NewService builds a transaction service around a fresh ledger.
func NewService(logger *slog.Logger, notifier notification.Notifier) *Service {
	return &Service{
		ledger:   engine.NewLedger(),
		logger:   logger,
		notifier: notifier,
	}
}

// Process applies a single record. Engine rejections come back to the caller
// as-is; a successful chargeback additionally raises an account-locked event.
func (s *Service) Process(ctx context.Context, rec engine.Record) error {
	s.mu.Lock()
	err := s.ledger.Process(rec)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if rec.Type == engine.RecordChargeback && s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Event{
			Kind:   notification.KindAccountLocked,
			Client: rec.Client,
			Tx:     rec.Tx,
			Detail: "account locked by chargeback",
		})
	}
	return nil
}

// ImportSummary counts the outcome of a bulk import.
type ImportSummary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Import streams a whole CSV body through the ledger. Malformed rows and
// engine rejections are counted and logged, never fatal; only an unusable
// header fails the import itself.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	reader, err := stream.NewReader(r)
	if err != nil {
		return ImportSummary{}, err
	}

	var summary ImportSummary
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Rejected++
			s.logger.Warn("skipping malformed row", "error", err)
			continue
		}
		if err := s.Process(ctx, rec); err != nil {
			summary.Rejected++
			s.logger.Warn("transaction rejected", "type", rec.Type, "client", rec.Client, "tx", rec.Tx, "error", err)
			continue
		}
		summary.Accepted++
	}
	return summary, nil
}

// Snapshots projects every account. Accounts whose total overflows are
// omitted, logged, and reported to the notifier.
func (s *Service) Snapshots(ctx context.Context) []engine.AccountSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshots(func(clientID uint16, err error) {
		s.logger.Warn("account omitted from report", "client", clientID, "error", err)
		if s.notifier != nil {
			_ = s.notifier.Send(ctx, notification.Event{
				Kind:   notification.KindSnapshotOmitted,
				Client: clientID,
				Detail: err.Error(),
			})
		}
	})
}

// Snapshot projects a single client account.
func (s *Service) Snapshot(_ context.Context, clientID uint16) (engine.AccountSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot(clientID)
}
