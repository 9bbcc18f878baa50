// Package history keeps the most recent health reports of each client.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// SlotName is the storage name the history lives under
const SlotName = "healthReports"

// DefaultCapacity is how many reports are kept per client
const DefaultCapacity = 3

var (
	ErrReportNotFound  = errors.New("health report not found")
	ErrInvalidClientID = errors.New("client id is required")
)

// Store is a bounded, newest-first list of reports per client on top of a Slot.
// A malformed stored value reads as an empty history and is overwritten on the
// next write.
type Store struct {
	slot     Slot
	capacity int
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewStore creates a Store. A non-positive capacity falls back to DefaultCapacity.
func NewStore(slot Slot, capacity int, logger *zap.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		slot:     slot,
		capacity: capacity,
		logger:   logger,
	}
}

// Capacity returns the maximum number of reports kept per client
func (s *Store) Capacity() int {
	return s.capacity
}

// Key returns the slot key for a client
func Key(clientID string) string {
	return SlotName + "/" + clientID
}

// ReadAll returns the client's reports, newest first
func (s *Store) ReadAll(ctx context.Context, clientID string) ([]model.HealthReport, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, clientID)
}

// Append puts report at the front and drops whatever no longer fits
func (s *Store) Append(ctx context.Context, clientID string, report model.HealthReport) ([]model.HealthReport, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	updated := append([]model.HealthReport{report}, reports...)
	if len(updated) > s.capacity {
		updated = updated[:s.capacity]
	}

	if err := s.save(ctx, clientID, updated); err != nil {
		return nil, err
	}

	s.logger.Info("health report appended",
		zap.String("client_id", clientID),
		zap.Int64("report_id", report.ID),
		zap.Int("count", len(updated)),
	)

	return updated, nil
}

// Promote moves the report with id to the front. The length never changes.
func (s *Store) Promote(ctx context.Context, clientID string, id int64) ([]model.HealthReport, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	target, found := lo.Find(reports, func(r model.HealthReport) bool { return r.ID == id })
	if !found {
		return nil, ErrReportNotFound
	}

	rest := lo.Reject(reports, func(r model.HealthReport, _ int) bool { return r.ID == id })
	updated := append([]model.HealthReport{target}, rest...)

	if err := s.save(ctx, clientID, updated); err != nil {
		return nil, err
	}

	s.logger.Info("health report promoted",
		zap.String("client_id", clientID),
		zap.Int64("report_id", id),
	)

	return updated, nil
}

func (s *Store) load(ctx context.Context, clientID string) ([]model.HealthReport, error) {
	data, err := s.slot.Load(ctx, Key(clientID))
	if errors.Is(err, ErrSlotEmpty) {
		return []model.HealthReport{}, nil
	}
	if errors.Is(err, ErrSlotCorrupt) {
		s.logger.Warn("corrupt history slot, treating as empty",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return []model.HealthReport{}, nil
	}
	if err != nil {
		s.logger.Error("failed to load history slot",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var reports []model.HealthReport
	if err := json.Unmarshal(data, &reports); err != nil {
		s.logger.Warn("corrupt history slot, treating as empty",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return []model.HealthReport{}, nil
	}
	if reports == nil {
		reports = []model.HealthReport{}
	}
	if len(reports) > s.capacity {
		reports = reports[:s.capacity]
	}

	return reports, nil
}

func (s *Store) save(ctx context.Context, clientID string, reports []model.HealthReport) error {
	data, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := s.slot.Save(ctx, Key(clientID), data); err != nil {
		s.logger.Error("failed to save history slot",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func checkClientID(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrInvalidClientID
	}
	return nil
}
