package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/buysmart/comparison/internal/metrics"
	"go.uber.org/multierr"
)

// AddOutcome reports what ComparisonStore.Add did
type AddOutcome string

const (
	AddOutcomeAdded     AddOutcome = "added"
	AddOutcomeDuplicate AddOutcome = "duplicate"
	AddOutcomeFull      AddOutcome = "full"
)

// ComparisonStoreConfig holds the optional collaborators of the store
type ComparisonStoreConfig struct {
	Logger  *logging.Logger
	Metrics *metrics.ComparisonMetrics
	// OnCorrupted receives load diagnostics. The store still starts empty or trimmed.
	OnCorrupted func(error)
}

// ComparisonStore owns the staged comparison set and mirrors it to slot storage
type ComparisonStore struct {
	slot        domain.SlotStorage
	logger      *logging.Logger
	metrics     *metrics.ComparisonMetrics
	onCorrupted func(error)

	mutex    sync.RWMutex
	products []domain.ComparisonProduct
}

// NewComparisonStore creates the store and loads the persisted set.
// Load problems never fail construction.
func NewComparisonStore(ctx context.Context, slot domain.SlotStorage, config ComparisonStoreConfig) *ComparisonStore {
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	s := &ComparisonStore{
		slot:        slot,
		logger:      logger.Component("comparison-store"),
		metrics:     config.Metrics,
		onCorrupted: config.OnCorrupted,
		products:    []domain.ComparisonProduct{},
	}
	s.load(ctx)
	return s
}

func (s *ComparisonStore) load(ctx context.Context) {
	raw, err := s.slot.Get(ctx, domain.ComparisonSlotKey)
	if errors.Is(err, domain.ErrSlotNotFound) {
		return
	}
	if err != nil {
		s.reportCorrupted(ctx, fmt.Errorf("%w: read slot: %v", domain.ErrStorageCorrupted, err))
		return
	}

	var stored []domain.ComparisonProduct
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.reportCorrupted(ctx, fmt.Errorf("%w: %v", domain.ErrStorageCorrupted, err))
		return
	}

	products, dropped := normalizeLoaded(stored)
	s.products = products
	s.metrics.SetSize(len(products))
	if dropped != nil {
		s.reportCorrupted(ctx, dropped)
	}
}

// normalizeLoaded keeps the first MaxComparisonProducts valid entries with a unique analysisId
func normalizeLoaded(stored []domain.ComparisonProduct) ([]domain.ComparisonProduct, error) {
	products := make([]domain.ComparisonProduct, 0, domain.MaxComparisonProducts)
	seen := make(map[string]struct{}, len(stored))
	var dropped error

	for i, p := range stored {
		invalid := p.Validate()
		switch {
		case p.AnalysisID == "":
			dropped = multierr.Append(dropped, fmt.Errorf("%w: entry %d has no analysisId", domain.ErrStorageCorrupted, i))
		case invalid != nil:
			dropped = multierr.Append(dropped, fmt.Errorf("%w: entry %d (%s) invalid: %v", domain.ErrStorageCorrupted, i, p.AnalysisID, invalid))
		case hasKey(seen, p.AnalysisID):
			dropped = multierr.Append(dropped, fmt.Errorf("%w: entry %d duplicates %q", domain.ErrStorageCorrupted, i, p.AnalysisID))
		case len(products) == domain.MaxComparisonProducts:
			dropped = multierr.Append(dropped, fmt.Errorf("%w: entry %d exceeds capacity", domain.ErrStorageCorrupted, i))
		default:
			seen[p.AnalysisID] = struct{}{}
			products = append(products, p)
		}
	}
	return products, dropped
}

func hasKey(m map[string]struct{}, key string) bool {
	_, ok := m[key]
	return ok
}

func (s *ComparisonStore) reportCorrupted(ctx context.Context, err error) {
	s.logger.Warn(ctx, "persisted comparison set ignored", "error", err.Error())
	if s.onCorrupted != nil {
		s.onCorrupted(err)
	}
}

// Add appends p unless the set is full or already holds its analysisId
func (s *ComparisonStore) Add(ctx context.Context, p domain.ComparisonProduct) AddOutcome {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.products) >= domain.MaxComparisonProducts {
		s.metrics.IncAdd(string(AddOutcomeFull))
		return AddOutcomeFull
	}
	if s.indexOf(p.AnalysisID) >= 0 {
		s.metrics.IncAdd(string(AddOutcomeDuplicate))
		return AddOutcomeDuplicate
	}

	s.products = append(s.products, p)
	s.metrics.IncAdd(string(AddOutcomeAdded))
	s.persist(ctx)
	return AddOutcomeAdded
}

// Remove deletes the product with analysisID and reports whether one was present.
// The set is persisted either way.
func (s *ComparisonStore) Remove(ctx context.Context, analysisID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.indexOf(analysisID)
	if idx >= 0 {
		s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
		s.metrics.IncRemove()
	}
	s.persist(ctx)
	return idx >= 0
}

// Clear empties the set
func (s *ComparisonStore) Clear(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.products = []domain.ComparisonProduct{}
	s.persist(ctx)
}

// Contains reports whether analysisID is staged
func (s *ComparisonStore) Contains(analysisID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.indexOf(analysisID) >= 0
}

// Count returns the number of staged products
func (s *ComparisonStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.products)
}

// All returns a copy of the staged products in insertion order
func (s *ComparisonStore) All() []domain.ComparisonProduct {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]domain.ComparisonProduct, len(s.products))
	copy(out, s.products)
	return out
}

// Capacity returns the maximum set size
func (s *ComparisonStore) Capacity() int {
	return domain.MaxComparisonProducts
}

// indexOf must be called with the mutex held
func (s *ComparisonStore) indexOf(analysisID string) int {
	for i, p := range s.products {
		if p.AnalysisID == analysisID {
			return i
		}
	}
	return -1
}

// persist must be called with the write lock held. Failures are logged, not returned.
func (s *ComparisonStore) persist(ctx context.Context) {
	s.metrics.SetSize(len(s.products))

	data, err := json.Marshal(s.products)
	if err != nil {
		s.metrics.IncPersistError()
		s.logger.Error(ctx, "failed to encode comparison set", err)
		return
	}
	if err := s.slot.Put(ctx, domain.ComparisonSlotKey, data); err != nil {
		s.metrics.IncPersistError()
		s.logger.Error(ctx, "failed to persist comparison set", err, "count", len(s.products))
	}
}
