package exports

import (
	"context"
	"fmt"
	"time"

	"serveon_backend/platform/apperr"
	"serveon_backend/platform/logger"

	"github.com/google/uuid"
)

// LogStore persists the export log.
type LogStore interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Service archives finished exports and keeps the log. Archival is best
// effort: failures are logged and never reach the user's download.
type Service struct {
	archiver Archiver
	store    LogStore
	queue    Enqueuer
	log      *logger.Logger
	now      func() time.Time
}

func NewService(archiver Archiver, store LogStore, log *logger.Logger) *Service {
	if archiver == nil {
		archiver = NopArchiver{}
	}
	return &Service{archiver: archiver, store: store, log: log, now: time.Now}
}

// UseQueue defers archival to the background worker.
func (s *Service) UseQueue(q Enqueuer) {
	s.queue = q
}

// Record hands body to the worker, or archives it inline when no queue is
// set or enqueueing fails.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, entityType string, body []byte, rows int) {
	payload := ArchivePayload{
		EntityType:  entityType,
		UserID:      userID,
		Rows:        rows,
		Body:        body,
		RequestedAt: s.now(),
	}

	if s.queue != nil {
		err := s.queue.EnqueueArchive(ctx, payload)
		if err == nil {
			return
		}
		s.log.WithContext(ctx).ExportDegraded("enqueue", entityType, err)
	}
	_ = s.Archive(ctx, payload, true)
}

// Archive uploads the export and appends it to the log. An upload failure is
// returned for a retry unless lastAttempt is set, in which case the export
// is logged without an object key. A log failure is always returned.
func (s *Service) Archive(ctx context.Context, payload ArchivePayload, lastAttempt bool) error {
	log := s.log.WithContext(ctx)

	entry := Entry{EntityType: payload.EntityType, UserID: payload.UserID, RowCount: payload.Rows}
	key, err := s.archiver.Archive(ctx, payload.EntityType, payload.Body, payload.RequestedAt)
	switch {
	case err != nil && !lastAttempt:
		return fmt.Errorf("archive %s export: %w", payload.EntityType, err)
	case err != nil:
		log.ExportDegraded("archive", payload.EntityType, err)
	case key != "":
		entry.ObjectKey = &key
	}

	if s.store != nil {
		if _, err := s.store.Insert(ctx, entry); err != nil {
			log.ExportDegraded("log", payload.EntityType, err)
			return fmt.Errorf("log %s export: %w", payload.EntityType, err)
		}
	}
	log.ExportRecorded(payload.EntityType, payload.Rows, key)
	return nil
}

// Recent lists the latest exports.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s.store == nil {
		return []Entry{}, nil
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Internal("failed to list exports").WithOp("exports.Recent").WithCause(err)
	}
	return entries, nil
}
