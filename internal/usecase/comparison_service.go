package usecase

import (
	"context"
	"strings"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/logging"
)

const (
	capacityReachedMessage = "Maximum 4 products can be compared"
	alreadyAddedMessage    = "Product already added to comparison"
	addedMessage           = "Product added to comparison"
	addFailedMessage       = "Failed to add product"
	removedMessage         = "Product removed from comparison"
)

// Snapshot is the comparison view state
type Snapshot struct {
	Products      []domain.ComparisonProduct `json:"products"`
	Count         int                        `json:"count"`
	Capacity      int                        `json:"capacity"`
	Best          *domain.ComparisonProduct  `json:"best,omitempty"`
	CanAddMore    bool                       `json:"canAddMore"`
	ShowBestLabel bool                       `json:"showBestLabel"`
	// Bands is keyed by analysisId
	Bands map[string]ScoreBands `json:"bands"`
}

// ComparisonService is the caller layer driving the store, fetcher and loader
type ComparisonService struct {
	store    *ComparisonStore
	fetcher  *ComparisonFetcher
	loader   *CandidateLoader
	notifier domain.Notifier
	logger   *logging.Logger
}

// NewComparisonService wires the comparison components together
func NewComparisonService(
	store *ComparisonStore,
	fetcher *ComparisonFetcher,
	loader *CandidateLoader,
	notifier domain.Notifier,
	logger *logging.Logger,
) *ComparisonService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ComparisonService{
		store:    store,
		fetcher:  fetcher,
		loader:   loader,
		notifier: notifier,
		logger:   logger.Component("comparison-service"),
	}
}

// AddCandidate stages analysisID, telling the user why when it cannot
func (s *ComparisonService) AddCandidate(ctx context.Context, analysisID string) (domain.ComparisonProduct, error) {
	analysisID = strings.TrimSpace(analysisID)
	if analysisID == "" {
		return domain.ComparisonProduct{}, domain.ErrInvalidRequest
	}

	if s.store.Count() >= s.store.Capacity() {
		notify(ctx, s.notifier, capacityReachedMessage, domain.SeverityInfo)
		return domain.ComparisonProduct{}, domain.ErrCapacityExceeded
	}
	if s.store.Contains(analysisID) {
		notify(ctx, s.notifier, alreadyAddedMessage, domain.SeverityInfo)
		return domain.ComparisonProduct{}, domain.ErrDuplicateEntry
	}

	product, outcome, err := s.fetcher.AddByAnalysisID(ctx, analysisID)
	if err != nil {
		notify(ctx, s.notifier, addFailedMessage, domain.SeverityError)
		return domain.ComparisonProduct{}, err
	}

	// Another request may have filled the set while this one was in flight
	switch outcome {
	case AddOutcomeFull:
		notify(ctx, s.notifier, capacityReachedMessage, domain.SeverityInfo)
		return domain.ComparisonProduct{}, domain.ErrCapacityExceeded
	case AddOutcomeDuplicate:
		notify(ctx, s.notifier, alreadyAddedMessage, domain.SeverityInfo)
		return domain.ComparisonProduct{}, domain.ErrDuplicateEntry
	}

	notify(ctx, s.notifier, addedMessage, domain.SeveritySuccess)
	return product, nil
}

// Remove unstages analysisID and reports whether it was present
func (s *ComparisonService) Remove(ctx context.Context, analysisID string) bool {
	removed := s.store.Remove(ctx, analysisID)
	if removed {
		notify(ctx, s.notifier, removedMessage, domain.SeveritySuccess)
	}
	return removed
}

// Clear empties the comparison set
func (s *ComparisonService) Clear(ctx context.Context) {
	s.store.Clear(ctx)
	s.logger.Info(ctx, "comparison set cleared")
}

// Snapshot returns the current view state
func (s *ComparisonService) Snapshot() Snapshot {
	products := s.store.All()
	snap := Snapshot{
		Products:      products,
		Count:         len(products),
		Capacity:      s.store.Capacity(),
		CanAddMore:    len(products) < s.store.Capacity(),
		ShowBestLabel: ShowBestBanner(len(products)),
		Bands:         make(map[string]ScoreBands, len(products)),
	}
	for _, p := range products {
		snap.Bands[p.AnalysisID] = BandsFor(p.Scores)
	}
	if snap.ShowBestLabel {
		if best, ok := PickBest(products); ok {
			snap.Best = &best
		}
	}
	return snap
}

// Candidates lists the candidate pool narrowed by query
func (s *ComparisonService) Candidates(ctx context.Context, query string) ([]domain.AvailableProduct, error) {
	all, err := s.loader.FetchAvailable(ctx)
	if err != nil {
		return all, err
	}
	return FilterCandidates(all, query), nil
}

// SearchCandidates delegates the search to the backend
func (s *ComparisonService) SearchCandidates(ctx context.Context, query string) ([]domain.AvailableProduct, error) {
	return s.loader.SearchRemote(ctx, query)
}
