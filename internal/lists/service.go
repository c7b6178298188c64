package lists

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tasklight/tasklight/internal/models"
)

// Archiver receives a JSON snapshot of a user's lists after each successful
// save. Implemented by store.Minio.
type Archiver interface {
	Archive(ctx context.Context, userID string, snapshot []byte) error
}

// Service reads and writes per-user ListSets. Every value that crosses the
// storage boundary passes through normalization, in both directions.
type Service struct {
	store    *Store
	archiver Archiver // nil when no archive is configured
	log      *slog.Logger
}

func NewService(store *Store, archiver Archiver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, archiver: archiver, log: log}
}

// GetLists returns the stored ListSet for userID. When no usable document
// exists yet it persists the empty default and returns it. That write is an
// idempotent upsert: concurrent first reads may both store the same empty
// document harmlessly.
func (s *Service) GetLists(ctx context.Context, userID string) (models.ListSet, error) {
	doc, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.EmptyListSet(), err
	}
	if !ok {
		empty := models.EmptyListSet()
		if err := s.store.Save(ctx, userID, empty); err != nil {
			return empty, err
		}
		return empty, nil
	}
	return NormalizeLists(doc, time.Now().UnixMilli()), nil
}

// SaveLists normalizes candidate, replaces userID's stored document
// wholesale (last write wins, no merge), and returns the persisted form.
func (s *Service) SaveLists(ctx context.Context, userID string, candidate interface{}) (models.ListSet, error) {
	set := NormalizeLists(candidate, time.Now().UnixMilli())
	if err := s.store.Save(ctx, userID, set); err != nil {
		return set, err
	}
	if s.archiver != nil {
		go s.archive(userID, set)
	}
	return set, nil
}

// archive uploads a snapshot in the background; failures are logged, never
// surfaced to the request that triggered them.
func (s *Service) archive(userID string, set models.ListSet) {
	snapshot, err := json.Marshal(set)
	if err != nil {
		s.log.Error("marshal list snapshot", "user_id", userID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.archiver.Archive(ctx, userID, snapshot); err != nil {
		s.log.Error("archive list snapshot", "user_id", userID, "error", err)
	}
}
